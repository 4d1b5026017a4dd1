package tracing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsContactData(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("email", "a@b.c"),
		attribute.String("http.route", "/dashboard/:page"),
		attribute.String("phone", "555"),
	)
	assert.Equal(t, []attribute.KeyValue{attribute.String("http.route", "/dashboard/:page")}, attrs)
}

func TestSafeErrorTruncates(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	long := errors.New(strings.Repeat("x", 400))
	assert.Len(t, SafeError(long).Error(), 256)
}

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(nil, Config{ServiceName: "telco360-test"}, nil)
	assert.NoError(t, err)
	assert.NotNil(t, provider)
}
