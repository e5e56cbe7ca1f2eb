package storequery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPingAcceptsAnyHandlerType(t *testing.T) {
	for _, ht := range []HandlerType{Service, Bucket, Object} {
		cmd, err := Dispatch("ping foo", ht)
		require.NoError(t, err)
		assert.Equal(t, "ping", cmd.Name)
	}
}

func TestDispatchPingRejectsWrongArity(t *testing.T) {
	_, err := Dispatch("ping", Service)
	assert.Error(t, err)
	_, err = Dispatch("ping foo bar", Service)
	assert.Error(t, err)
}

func TestDispatchObjectStatusOnlyValidInObjectContext(t *testing.T) {
	_, err := Dispatch("ObjectStatus", Object)
	assert.NoError(t, err)

	_, err = Dispatch("objectstatus", Service)
	assert.Error(t, err)
	_, err = Dispatch("objectstatus", Bucket)
	assert.Error(t, err)
}

func TestDispatchObjectStatusRejectsParams(t *testing.T) {
	_, err := Dispatch("objectstatus foo", Object)
	assert.Error(t, err)
}

func TestDispatchUnknownCommand(t *testing.T) {
	_, err := Dispatch("nope", Service)
	assert.Error(t, err)
}

func TestPingExecutesRequestIDPassthrough(t *testing.T) {
	cmd, err := Dispatch("ping foo", Service)
	require.NoError(t, err)
	resp := Ping(cmd)
	assert.Equal(t, "foo", resp.Result.RequestID)
}
