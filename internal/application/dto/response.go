package dto

// RejectionDetail 业务规则拒绝详情
type RejectionDetail struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// RejectionResponse 业务规则拒绝响应 (HTTP 400)
type RejectionResponse struct {
	Detail RejectionDetail `json:"detail"`
}

// DetailResponse 简单错误响应，例如模型未加载 (HTTP 503)
type DetailResponse struct {
	Detail string `json:"detail"`
}

// SchemaErrorItem 请求结构校验错误条目
type SchemaErrorItem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// SchemaErrorResponse 请求结构校验失败响应 (HTTP 422)
type SchemaErrorResponse struct {
	Detail []SchemaErrorItem `json:"detail"`
}

// RootResponse 服务入口信息
type RootResponse struct {
	Message string `json:"message"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status      string            `json:"status"`
	ModelLoaded bool              `json:"model_loaded"`
	Version     string            `json:"version,omitempty"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// StatsResponse 聚合统计响应
type StatsResponse struct {
	TotalPredictions int64            `json:"total_predictions"`
	ByRiskLevel      map[string]int64 `json:"by_risk_level"`
	AvgCreditScore   float64          `json:"avg_credit_score"`
	Last24h          int64            `json:"last_24h"`
	ModelLoaded      bool             `json:"model_loaded"`
}
