// Package mocks provides shared hand-written fakes for the interfaces the
// API and service tests depend on.
//
// Each mock has function fields for custom behavior and default return
// values used when no function is set:
//
//	jwt := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{SessionID: id}, nil
//	    },
//	}
package mocks
