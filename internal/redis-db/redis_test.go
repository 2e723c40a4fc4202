package redis_db

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name         string
		rawURL       string
		wantAddr     string
		wantPassword string
	}{
		{name: "docker style address", rawURL: "redis:6379", wantAddr: "redis:6379"},
		{name: "localhost", rawURL: "localhost:6379", wantAddr: "localhost:6379"},
		{name: "url form", rawURL: "redis://localhost:6380", wantAddr: "localhost:6380"},
		{name: "url with password", rawURL: "redis://:secret@localhost:6379", wantAddr: "localhost:6379", wantPassword: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseRedisURL(tt.rawURL)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAddr, opts.Addr)
			assert.Equal(t, tt.wantPassword, opts.Password)
		})
	}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient([]string{mr.Addr()})
	assert.NoError(t, err)
	assert.NotNil(t, client.Client())
	assert.NotNil(t, client.MakeRedisClient())
}

func TestNewRedisClientEmptyAddresses(t *testing.T) {
	_, err := NewRedisClient(nil)
	assert.EqualError(t, err, "redis addresses list cannot be empty")
}

func TestNewRedisClientUnreachable(t *testing.T) {
	_, err := NewRedisClient([]string{fmt.Sprintf("localhost:%d", 1)})
	assert.Error(t, err)
}
