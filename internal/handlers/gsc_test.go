package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/meltingdad/gsc-arena/internal/searchconsole"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGSCSites(t *testing.T) {
	env := newTestEnv(t)
	env.fake.sites = []searchconsole.Site{
		{SiteURL: "sc-domain:example.com", PermissionLevel: "siteOwner"},
		{SiteURL: "https://blog.example.org/", PermissionLevel: "siteFullUser"},
	}
	cookies := env.signIn(t)

	w := env.do(t, http.MethodGet, "/gsc/sites", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sites":[
		{"siteUrl":"sc-domain:example.com","permissionLevel":"siteOwner"},
		{"siteUrl":"https://blog.example.org/","permissionLevel":"siteFullUser"}
	]}`, w.Body.String())
}

func TestGSCSites_Errors(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodGet, "/gsc/sites", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no credential", func(t *testing.T) {
		env := newTestEnv(t)
		cookies := env.signIn(t)
		require.NoError(t, env.store.DB().Exec("DELETE FROM user_tokens").Error)

		w := env.do(t, http.MethodGet, "/gsc/sites", "", cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, msgNoCredential, decodeBody(t, w)["error"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.fake.err = errors.New("boom")
		cookies := env.signIn(t)

		w := env.do(t, http.MethodGet, "/gsc/sites", "", cookies)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, msgUpstreamFailure, decodeBody(t, w)["error"])
	})
}
