package authenticatorpb

import (
	"context"

	"google.golang.org/grpc"
)

// service name and method paths, as protoc-gen-go-grpc would emit them for
// authenticator.v1.AuthenticatorService.
const (
	serviceName             = "authenticator.v1.AuthenticatorService"
	methodAuthenticateREST  = "/" + serviceName + "/AuthenticateREST"
	methodGetSigningKey     = "/" + serviceName + "/GetSigningKey"
)

// AuthenticatorServiceClient is the client API for AuthenticatorService, the
// gRPC surface presented by the external Authenticator. It is kept as an
// interface so callers (the VC transport layer) never depend on the
// concrete *grpc.ClientConn, matching how generated protoc-gen-go-grpc
// clients are structured.
type AuthenticatorServiceClient interface {
	AuthenticateREST(ctx context.Context, in *AuthenticateRESTRequest, opts ...grpc.CallOption) (*AuthenticateRESTResponse, error)
	GetSigningKey(ctx context.Context, in *GetSigningKeyRequest, opts ...grpc.CallOption) (*GetSigningKeyResponse, error)
}

type authenticatorServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthenticatorServiceClient wraps a gRPC connection in the generated
// client shape.
func NewAuthenticatorServiceClient(cc grpc.ClientConnInterface) AuthenticatorServiceClient {
	return &authenticatorServiceClient{cc}
}

func (c *authenticatorServiceClient) AuthenticateREST(ctx context.Context, in *AuthenticateRESTRequest, opts ...grpc.CallOption) (*AuthenticateRESTResponse, error) {
	out := new(AuthenticateRESTResponse)
	if err := c.cc.Invoke(ctx, methodAuthenticateREST, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authenticatorServiceClient) GetSigningKey(ctx context.Context, in *GetSigningKeyRequest, opts ...grpc.CallOption) (*GetSigningKeyResponse, error) {
	out := new(GetSigningKeyResponse)
	if err := c.cc.Invoke(ctx, methodGetSigningKey, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
