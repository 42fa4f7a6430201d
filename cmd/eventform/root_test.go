package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-eventform/pkg/registration"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender_SubmittedSummary(t *testing.T) {
	out, err := execute(t, "", "render",
		"--set", "name=Jo", "--set", "email=jo@x.com", "--set", "age=30", "--submit")
	require.NoError(t, err)
	require.Contains(t, out, "Registration Summary")
	require.Contains(t, out, "<dt>Age:</dt><dd>30</dd>")
}

func TestRender_EditingWithGuest(t *testing.T) {
	out, err := execute(t, "", "render", "--set", "attendingWithGuest=yes")
	require.NoError(t, err)
	require.Contains(t, out, `name="guestName"`)
	require.NotContains(t, out, registration.MsgNameRequired)
}

func TestRender_JSON(t *testing.T) {
	out, err := execute(t, "", "render", "--format", "json", "--set", "name=", "--submit")
	require.NoError(t, err)

	var payload struct {
		State  string            `json:"state"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "editing", payload.State)
	require.Equal(t, registration.MsgNameRequired, payload.Errors[registration.FieldName])
}

func TestRender_UnknownField(t *testing.T) {
	_, err := execute(t, "", "render", "--set", "vip=yes")
	require.ErrorContains(t, err, `unknown field "vip"`)
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := execute(t, "", "render", "--format", "pdf")
	require.ErrorContains(t, err, "unknown output format")
}

func TestValidate_Valid(t *testing.T) {
	out, err := execute(t, `{"name":"Jo","email":"jo@x.com","age":"30"}`, "validate", "--file", "-")
	require.NoError(t, err)
	require.JSONEq(t, `{"valid":true}`, out)
}

func TestValidate_Invalid(t *testing.T) {
	out, err := execute(t, "", "validate",
		"--set", "name=A", "--set", "email=a@b.com", "--set", "age=5", "--set", "attendingWithGuest=yes")
	require.ErrorIs(t, err, errInvalidRegistration)
	require.JSONEq(t, `{"valid":false,"errors":{"guestName":"Guest name is required if attending with a guest"}}`, out)
}

func TestValidate_MalformedFile(t *testing.T) {
	_, err := execute(t, `{"age": true}`, "validate", "--file", "-")
	require.ErrorContains(t, err, "invalid payload")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eventform.yaml")

	out, err := execute(t, "", "config", "init", path)
	require.NoError(t, err)
	require.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "session_ttl")
}

func TestConfigFlagOverridesTitle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event:\n  title: GopherCon\n  description: \"<b>Bring</b> a friend<script>x</script>\"\n"), 0o600))

	out, err := execute(t, "", "--config", path, "render")
	require.NoError(t, err)
	require.Contains(t, out, "<title>GopherCon</title>")
	require.Contains(t, out, "<b>Bring</b> a friend")
	require.NotContains(t, out, "<script>x</script>")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "", "--log-level", "loud", "render")
	require.ErrorContains(t, err, "unknown level")
}
