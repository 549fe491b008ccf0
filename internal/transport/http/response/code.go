package response

// 业务码直接沿用 HTTP 语义
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeServerError  = 500
	CodeBadGateway   = 502
)

// CodeMsgMap 集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:           "OK",
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeForbidden:    "Forbidden",
	CodeNotFound:     "Not Found",
	CodeConflict:     "Conflict",
	CodeServerError:  "Internal Server Error",
	CodeBadGateway:   "Bad Gateway",
}

// HTTPStatus 响应体里的 code 同时决定 HTTP 状态行
func HTTPStatus(code int) int {
	if code == CodeOK {
		return 200
	}
	if code >= 400 && code < 600 {
		return code
	}
	return 500
}
