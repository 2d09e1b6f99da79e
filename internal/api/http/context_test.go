package http_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "staybook-backend/internal/api/http"
	"staybook-backend/internal/domain"
)

func TestActorFromContext(t *testing.T) {
	_, err := apihttp.ActorFromContext(context.Background())
	assert.Error(t, err)

	ctx := apihttp.WithActor(context.Background(), domain.Actor{UserID: 4, Role: domain.UserRoleOwner})
	actor, err := apihttp.ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(4), actor.UserID)
}
