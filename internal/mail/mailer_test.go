package mail

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() Message {
	return Message{
		From:     "troupe@example.org",
		To:       []string{"booking@festival.example"},
		Subject:  "Street show proposal",
		TextBody: "Hello from the troupe",
	}
}

func TestMessage_Validate(t *testing.T) {
	require.NoError(t, validMessage().Validate())

	m := validMessage()
	m.To = nil
	assert.Error(t, m.Validate())

	m = validMessage()
	m.From = " "
	assert.Error(t, m.Validate())

	m = validMessage()
	m.Subject = ""
	assert.Error(t, m.Validate())
}

func TestBuildMessage_RendersHeadersAndBody(t *testing.T) {
	msg := validMessage()
	msg.HTMLBody = "<p>Hello from the troupe</p>"

	m, err := buildMessage(msg)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Subject: Street show proposal")
	assert.Contains(t, out, "booking@festival.example")
	assert.Contains(t, out, "text/plain")
	assert.Contains(t, out, "text/html")
}

func TestBuildMessage_Attachments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dossier.txt")
	require.NoError(t, os.WriteFile(path, []byte("tech rider"), 0o600))

	msg := validMessage()
	msg.Attachments = []string{path}
	m, err := buildMessage(msg)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dossier.txt")

	msg.Attachments = []string{filepath.Join(dir, "missing.pdf")}
	_, err = buildMessage(msg)
	assert.Error(t, err)

	msg.Attachments = []string{dir}
	_, err = buildMessage(msg)
	assert.Error(t, err)
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	msg := validMessage()
	msg.To = []string{"not an address"}
	_, err := buildMessage(msg)
	assert.Error(t, err)
}

func TestSMTPMailer_NotConfigured(t *testing.T) {
	err := NewSMTPMailer(SMTPConfig{}).Send(context.Background(), validMessage())
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.ErrorIs(t, Disabled{}.Send(context.Background(), validMessage()), ErrNotConfigured)
}

func TestSMTPConfig_Configured(t *testing.T) {
	assert.False(t, SMTPConfig{Host: "smtp.example.org"}.Configured())
	assert.True(t, SMTPConfig{Host: "smtp.example.org", From: "a@example.org"}.Configured())
}
