// Package handoffconfig exposes the runtime-mutable configuration Handoff
// needs, backed by viper the way the rest of this codebase configures
// itself. Keys live under the "handoff." namespace and can be overridden by
// HANDOFF_-prefixed environment variables.
package handoffconfig

import (
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Source is the subset of weed/util's Configuration interface this package
// needs. Kept narrow and mockable so tests don't need a real viper instance.
type Source interface {
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetStringSlice(key string) []string
	SetDefault(key string, value interface{})
}

// viperProxy mutex-guards the shared viper.Viper the same way util.ViperProxy
// does, since viper.Viper is not safe for concurrent Get/Set.
type viperProxy struct {
	*viper.Viper
	sync.Mutex
}

func (vp *viperProxy) SetDefault(key string, value interface{}) {
	vp.Lock()
	defer vp.Unlock()
	vp.Viper.SetDefault(key, value)
}

func (vp *viperProxy) GetString(key string) string {
	vp.Lock()
	defer vp.Unlock()
	return vp.Viper.GetString(key)
}

func (vp *viperProxy) GetBool(key string) bool {
	vp.Lock()
	defer vp.Unlock()
	return vp.Viper.GetBool(key)
}

func (vp *viperProxy) GetInt(key string) int {
	vp.Lock()
	defer vp.Unlock()
	return vp.Viper.GetInt(key)
}

func (vp *viperProxy) GetStringSlice(key string) []string {
	vp.Lock()
	defer vp.Unlock()
	return vp.Viper.GetStringSlice(key)
}

var (
	once sync.Once
	vp   *viperProxy
)

// Viper returns the process-wide Source, initializing it on first use with
// the handoff.* defaults and HANDOFF environment override prefix.
func Viper() Source {
	once.Do(func() {
		vp = &viperProxy{Viper: viper.GetViper()}
		vp.AutomaticEnv()
		vp.SetEnvPrefix("handoff")
		vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		setDefaults(vp)
	})
	return vp
}

// The full set of config keys Handoff reads. The subset the
// Reconfiguration Observer tracks is returned by TrackedKeys.
const (
	KeyGRPCURI                     = "handoff.grpc_uri"
	KeyGRPCArgInitialBackoffMillis = "handoff.grpc_arg_initial_reconnect_backoff_ms"
	KeyGRPCArgMinBackoffMillis     = "handoff.grpc_arg_min_reconnect_backoff_ms"
	KeyGRPCArgMaxBackoffMillis     = "handoff.grpc_arg_max_reconnect_backoff_ms"
	KeyEnableChunkedUpload         = "handoff.enable_chunked_upload"
	KeyEnableSignatureV2           = "handoff.enable_signature_v2"
	KeyAuthparamAlways             = "handoff.authparam_always"
	KeyAuthparamWithToken          = "handoff.authparam_withtoken"
	KeyEnablePresignedExpiryCheck  = "handoff.enable_presigned_expiry_check"
	KeyVerifySSL                   = "handoff.verify_ssl"
	KeyURI                         = "handoff.uri"
)

func setDefaults(s Source) {
	s.SetDefault(KeyGRPCURI, "")
	s.SetDefault(KeyGRPCArgInitialBackoffMillis, 1000)
	s.SetDefault(KeyGRPCArgMinBackoffMillis, 1000)
	s.SetDefault(KeyGRPCArgMaxBackoffMillis, 30000)
	s.SetDefault(KeyEnableChunkedUpload, true)
	s.SetDefault(KeyEnableSignatureV2, true)
	s.SetDefault(KeyAuthparamAlways, false)
	s.SetDefault(KeyAuthparamWithToken, false)
	s.SetDefault(KeyEnablePresignedExpiryCheck, true)
	s.SetDefault(KeyVerifySSL, true)
	s.SetDefault(KeyURI, "")
}

// TrackedKeys lists every key the Reconfiguration Observer reacts to,
// mirroring the original implementation's get_tracked_conf_keys.
func TrackedKeys() []string {
	return []string{
		KeyAuthparamAlways,
		KeyAuthparamWithToken,
		KeyEnableChunkedUpload,
		KeyEnableSignatureV2,
		KeyGRPCArgInitialBackoffMillis,
		KeyGRPCArgMinBackoffMillis,
		KeyGRPCArgMaxBackoffMillis,
		KeyGRPCURI,
	}
}

// AuthParamMode selects whether AuthorizationParameters are attached to an
// AuthenticateREST call.
type AuthParamMode int

const (
	// AuthParamNever never attaches AuthorizationParameters.
	AuthParamNever AuthParamMode = iota
	// AuthParamWithToken attaches AuthorizationParameters only when the
	// request carries a security token (STS-issued credentials).
	AuthParamWithToken
	// AuthParamAlways always attaches AuthorizationParameters.
	AuthParamAlways
)

// AuthorizationMode reduces the always/with-token pair of booleans to a
// single mode, giving "always" precedence over "with token" the way the
// original config observer's get_authorization_mode does.
func AuthorizationMode(s Source) AuthParamMode {
	if s.GetBool(KeyAuthparamAlways) {
		return AuthParamAlways
	}
	if s.GetBool(KeyAuthparamWithToken) {
		return AuthParamWithToken
	}
	return AuthParamNever
}

// Snapshot is an immutable read of every Handoff config value. Read fetches
// each value with its own Source call and holds no lock across them, so an
// update that lands while Read runs can be seen in part.
type Snapshot struct {
	GRPCURI                     string
	GRPCArgInitialBackoffMillis int
	GRPCArgMinBackoffMillis     int
	GRPCArgMaxBackoffMillis     int
	EnableChunkedUpload         bool
	EnableSignatureV2           bool
	AuthParamMode               AuthParamMode
	EnablePresignedExpiryCheck  bool
	VerifySSL                   bool
	URI                         string
}

// Read takes a Snapshot of the current configuration.
func Read(s Source) Snapshot {
	return Snapshot{
		GRPCURI:                     s.GetString(KeyGRPCURI),
		GRPCArgInitialBackoffMillis: s.GetInt(KeyGRPCArgInitialBackoffMillis),
		GRPCArgMinBackoffMillis:     s.GetInt(KeyGRPCArgMinBackoffMillis),
		GRPCArgMaxBackoffMillis:     s.GetInt(KeyGRPCArgMaxBackoffMillis),
		EnableChunkedUpload:         s.GetBool(KeyEnableChunkedUpload),
		EnableSignatureV2:           s.GetBool(KeyEnableSignatureV2),
		AuthParamMode:               AuthorizationMode(s),
		EnablePresignedExpiryCheck:  s.GetBool(KeyEnablePresignedExpiryCheck),
		VerifySSL:                   s.GetBool(KeyVerifySSL),
		URI:                         s.GetString(KeyURI),
	}
}
