package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

func TestMessageSubject(t *testing.T) {
	tests := []struct {
		site, session string
		role          model.Role
		want          string
	}{
		{"acme", "s-1", model.RoleUser, "yuno.acme.s-1.msg.user"},
		{"acme.com", "s 1", model.RoleAssistant, "yuno.acme_com.s_1.msg.assistant"},
		{"*", ">", model.RoleUser, "yuno._._.msg.user"},
		{"", "", model.RoleUser, "yuno._._.msg.user"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MessageSubject(tt.site, tt.session, tt.role))
	}
}

func TestSessionFilter(t *testing.T) {
	assert.Equal(t, "yuno.acme.s-1.msg.>", SessionFilter("acme", "s-1"))
	assert.Equal(t, "yuno.default_site.abc.msg.>", SessionFilter("default_site", "abc"))
}
