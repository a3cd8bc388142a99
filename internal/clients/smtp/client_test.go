package smtp

import (
	netsmtp "net/smtp"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_AbsoluteActionURL_WhenRelative_ShouldResolveAgainstBase(t *testing.T) {

	client := NewClient("smtp.example.com", 587, "", "", "noreply@example.com", "https://app.example.com")

	assert.Equal(t, "https://app.example.com/search?savedSearchId=1",
		client.AbsoluteActionURL("/search?savedSearchId=1"))
}

func Test_AbsoluteActionURL_WhenAbsolute_ShouldPassThrough(t *testing.T) {

	client := NewClient("smtp.example.com", 587, "", "", "noreply@example.com", "https://app.example.com")

	assert.Equal(t, "https://other.example.com/page",
		client.AbsoluteActionURL("https://other.example.com/page"))
}

func Test_AbsoluteActionURL_WhenEmpty_ShouldStayEmpty(t *testing.T) {

	client := NewClient("smtp.example.com", 587, "", "", "noreply@example.com", "https://app.example.com")

	assert.Empty(t, client.AbsoluteActionURL(""))
}

func Test_SendNotification_ShouldBuildMultipartMessage(t *testing.T) {

	client := NewClient("smtp.example.com", 587, "", "", "noreply@example.com", "https://app.example.com")

	var sentAddr, sentFrom string
	var sentTo []string
	var sentMsg []byte
	client.SetTransport(func(addr string, a netsmtp.Auth, from string, to []string, msg []byte) error {
		sentAddr, sentFrom, sentTo, sentMsg = addr, from, to, msg
		return nil
	})

	err := client.SendNotification("buyer@example.com", "New properties",
		"Click to view them.", "/search?savedSearchId=1", "Acme Realty")

	assert.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", sentAddr)
	assert.Equal(t, "noreply@example.com", sentFrom)
	assert.Equal(t, []string{"buyer@example.com"}, sentTo)

	body := string(sentMsg)
	assert.Contains(t, body, "Subject: New properties")
	assert.Contains(t, body, "Content-Type: multipart/alternative")
	assert.Contains(t, body, "Content-Type: text/plain")
	assert.Contains(t, body, "Content-Type: text/html")
	assert.Contains(t, body, "https://app.example.com/search?savedSearchId=1")
	assert.Contains(t, body, "Acme Realty")
}

func Test_SendNotification_WhenTransportFails_ShouldReturnError(t *testing.T) {

	client := NewClient("smtp.example.com", 587, "", "", "noreply@example.com", "https://app.example.com")
	client.SetTransport(func(addr string, a netsmtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	})

	err := client.SendNotification("buyer@example.com", "New properties",
		"Click to view them.", "/search?savedSearchId=1", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "buyer@example.com")
}

func Test_RenderText_ShouldIncludeLinkAndAgency(t *testing.T) {

	body := renderText("title", "message", "https://app.example.com/search", "Acme Realty")

	assert.Contains(t, body, "title")
	assert.Contains(t, body, "message")
	assert.Contains(t, body, "Link: https://app.example.com/search")
	assert.Contains(t, body, "From: Acme Realty")
}

func Test_RenderHTML_ShouldEscapeUserContent(t *testing.T) {

	body := renderHTML("<script>alert(1)</script>", "message", "", "")

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
