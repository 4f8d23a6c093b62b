package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOwnershipAuthorizer_Authorize(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	authorizer := NewOwnershipAuthorizer()

	tests := []struct {
		name      string
		ownerID   uuid.UUID
		requester uuid.UUID
		want      Decision
	}{
		{name: "owner is allowed", ownerID: owner, requester: owner, want: Allow},
		{name: "other user is denied", ownerID: owner, requester: other, want: Deny},
		{name: "nil requester is denied", ownerID: owner, requester: uuid.Nil, want: Deny},
		{name: "nil owner is denied", ownerID: uuid.Nil, requester: uuid.Nil, want: Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authorizer.Authorize(tt.ownerID, tt.requester)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == Allow, got.Allowed())
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
}
