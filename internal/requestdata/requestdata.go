package requestdata

import (
	"context"
)

type requestDataKeyType struct{}

var requestDataKey = requestDataKeyType{}

// RequestData is the per-request identity injected by the auth middleware.
// UserID is the opaque account key; it is empty for anonymous requests.
type RequestData struct {
	UserID      string
	TokenString string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
