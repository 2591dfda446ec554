package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

func TestNewConnector_Standard(t *testing.T) {
	conn, err := NewConnector(&sheetport.ConnectionConfig{AuthMethod: sheetport.AuthMethodStandard})
	require.NoError(t, err)
	assert.IsType(t, &StandardConnector{}, conn)
}

func TestNewConnector_UnknownMethod(t *testing.T) {
	_, err := NewConnector(&sheetport.ConnectionConfig{AuthMethod: sheetport.AuthMethod(99)})
	assert.ErrorIs(t, err, sheetport.ErrUnsupportedAuthMethod)
}

func TestNewConnector_AWSRequiresRegion(t *testing.T) {
	_, err := NewConnector(&sheetport.ConnectionConfig{
		AuthMethod: sheetport.AuthMethodAWSIAM,
		Host:       "db.cluster.us-west-2.rds.amazonaws.com",
		Port:       5432,
		Username:   "importer",
	})
	assert.ErrorContains(t, err, "region")
}

func TestNewConnector_GoogleRequiresInstance(t *testing.T) {
	_, err := NewConnector(&sheetport.ConnectionConfig{
		AuthMethod: sheetport.AuthMethodGoogleIAM,
		Username:   "importer",
	})
	assert.ErrorContains(t, err, "instance")
}

func TestWrapConnectionError(t *testing.T) {
	config := &sheetport.ConnectionConfig{Host: "dbhost", Port: 5432, Database: "hospital_db"}

	tests := []struct {
		name     string
		raw      string
		contains string
	}{
		{"refused", "dial tcp 127.0.0.1:5432: connection refused", "pg_isready"},
		{"unknown host", "lookup dbhost: no such host", "DNS"},
		{"bad password", "FATAL: password authentication failed for user", "PGPASSWORD"},
		{"timeout", "dial tcp: i/o timeout", "timed out"},
		{"tls", "tls: failed to verify certificate", "sslmode"},
		{"other", "something unexpected", "something unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapConnectionError(errors.New(tt.raw), config)
			assert.ErrorIs(t, err, sheetport.ErrConnectionFailed)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestAWSIAMTokenProvider_Validation(t *testing.T) {
	_, err := NewAWSIAMTokenProvider("", "us-west-2", "importer")
	assert.ErrorContains(t, err, "endpoint")

	_, err = NewAWSIAMTokenProvider("host:5432", "", "importer")
	assert.ErrorContains(t, err, "region")

	_, err = NewAWSIAMTokenProvider("host:5432", "us-west-2", "")
	assert.ErrorContains(t, err, "username")

	p, err := NewAWSIAMTokenProvider("host:5432", "us-west-2", "importer")
	require.NoError(t, err)
	assert.Contains(t, p.String(), "us-west-2")
	assert.NotContains(t, p.String(), "password")
}

func TestAzureServicePrincipalProvider_Validation(t *testing.T) {
	_, err := NewAzureServicePrincipalProvider("", "client", "secret")
	assert.Error(t, err)

	p, err := NewAzureServicePrincipalProvider("tenant", "client", "secret")
	require.NoError(t, err)
	assert.NotContains(t, p.String(), "secret")
}
