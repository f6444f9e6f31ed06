package mailing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	cfg := MailConfig{SMTPEmail: "noreply@foodgram.test", SMTPSender: "Foodgram"}

	msg := BuildMessage(cfg, "cook@example.com", "Your list", "see attachment", Attachment{
		Filename: "shopping_list.txt",
		Content:  []byte("Shopping list:\nSalt (g)15"),
	})

	assert.Equal(t, []string{"cook@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Your list"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Foodgram")
	assert.Contains(t, raw, `filename="shopping_list.txt"`)
}

func TestSend_InvalidPort(t *testing.T) {
	err := NewSMTPMailer(MailConfig{SMTPHost: "localhost", SMTPPort: "smtp"}).Send("a@b.c", "s", "b")
	assert.Error(t, err)
}
