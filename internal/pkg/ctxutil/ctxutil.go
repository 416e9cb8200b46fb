package ctxutil

import "context"

type contextKey string

const requestDataKey contextKey = "request_data"

// RequestData carries per-request identifiers through the service layer.
type RequestData struct {
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	rd, _ := ctx.Value(requestDataKey).(*RequestData)
	return rd
}
