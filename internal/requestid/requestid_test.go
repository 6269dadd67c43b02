package requestid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", FromContext(ctx))
}

func TestFromContext_EmptyWhenAbsent(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))
}

func TestEnsure_InboundWins(t *testing.T) {
	ctx := WithRequestID(context.Background(), "existing")
	ctx, id := Ensure(ctx, "from-header")
	assert.Equal(t, "from-header", id)
	assert.Equal(t, "from-header", FromContext(ctx))
}

func TestEnsure_KeepsContextID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "existing")
	ctx, id := Ensure(ctx, "")
	assert.Equal(t, "existing", id)
	assert.Equal(t, "existing", FromContext(ctx))
}

func TestEnsure_MintsWhenEmpty(t *testing.T) {
	ctx, id := Ensure(context.Background(), "")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, FromContext(ctx))

	_, other := Ensure(context.Background(), "")
	assert.NotEqual(t, id, other)
}
