package handoffconfig

import (
	"context"

	"github.com/healthwaite/handoff/internal/glog"
)

// ChannelTarget is implemented by the transport that owns the long-lived
// RPC channel. Method names mirror HandoffHelperImpl's channel mutators.
// The HTTP transport has no channel to rebuild, so it simply isn't given
// one to an Observer.
type ChannelTarget interface {
	SetChannelArgs(initialMs, minMs, maxMs int)
	SetChannelURI(ctx context.Context, uri string) error
}

// FlagsTarget is implemented by the holder of the RuntimeConfig the
// Handoff Engine reads per request.
type FlagsTarget interface {
	SetChunkedUploadMode(enabled bool)
	SetSignatureV2(enabled bool)
	SetAuthorizationMode(mode AuthParamMode)
}

// Observer watches a Source for changes to the tracked keys and applies
// them to a ChannelTarget and/or a FlagsTarget. It holds the last-seen
// Snapshot so Changed can diff against it; callers drive Changed from
// whatever change-notification mechanism the Source supports (a
// viper.OnConfigChange callback, a poll loop, or a test driving it
// directly).
type Observer struct {
	source   Source
	channel  ChannelTarget
	flags    FlagsTarget
	lastSeen Snapshot
}

// NewObserver creates an Observer and takes its first Snapshot so the first
// Changed call only reacts to genuine deltas. channel may be nil when the
// active transport has no channel to manage (the HTTP transport).
func NewObserver(source Source, channel ChannelTarget, flags FlagsTarget) *Observer {
	return &Observer{
		source:   source,
		channel:  channel,
		flags:    flags,
		lastSeen: Read(source),
	}
}

// Changed re-reads the Source and applies any deltas to the target, in the
// same order and grouping as the original handle_conf_change: channel
// argument changes are applied before a channel URI change (a rebuilt
// channel must pick up the new backoff settings), and a failed channel
// rebuild is logged but does not roll back the other flags that changed in
// the same call.
func (o *Observer) Changed(ctx context.Context) {
	next := Read(o.source)
	prev := o.lastSeen
	o.lastSeen = next

	if o.channel != nil {
		if next.GRPCArgInitialBackoffMillis != prev.GRPCArgInitialBackoffMillis ||
			next.GRPCArgMinBackoffMillis != prev.GRPCArgMinBackoffMillis ||
			next.GRPCArgMaxBackoffMillis != prev.GRPCArgMaxBackoffMillis {
			o.channel.SetChannelArgs(next.GRPCArgInitialBackoffMillis, next.GRPCArgMinBackoffMillis, next.GRPCArgMaxBackoffMillis)
		}

		if next.GRPCURI != prev.GRPCURI {
			if err := o.channel.SetChannelURI(ctx, next.GRPCURI); err != nil {
				glog.ErrorfCtx(ctx, "handoff: rebuilding gRPC channel for %q: %v, retaining previous channel", next.GRPCURI, err)
			}
		}
	}

	if o.flags == nil {
		return
	}

	if next.EnableChunkedUpload != prev.EnableChunkedUpload {
		o.flags.SetChunkedUploadMode(next.EnableChunkedUpload)
	}

	if next.EnableSignatureV2 != prev.EnableSignatureV2 {
		o.flags.SetSignatureV2(next.EnableSignatureV2)
	}

	if next.AuthParamMode != prev.AuthParamMode {
		o.flags.SetAuthorizationMode(next.AuthParamMode)
	}
}
