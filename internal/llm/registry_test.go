package llm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deniskropp/gemini-repo-cli/internal/llm"
	llmmock "github.com/deniskropp/gemini-repo-cli/internal/llm/mock"
)

func TestRegistryResolveDefault(t *testing.T) {
	reg := llm.NewRegistry()
	mockProvider := &llmmock.Provider{NameValue: "mock"}
	reg.RegisterProvider("mock", mockProvider, true)

	p, err := reg.Resolve("")
	require.NoError(t, err)
	require.Equal(t, mockProvider, p)
}

func TestRegistryResolveByName(t *testing.T) {
	reg := llm.NewRegistry()
	first := &llmmock.Provider{NameValue: "first"}
	second := &llmmock.Provider{NameValue: "second"}
	reg.RegisterProvider("first", first, true)
	reg.RegisterProvider("second", second, false)

	p, err := reg.Resolve("second")
	require.NoError(t, err)
	require.Equal(t, second, p)

	p, err = reg.Resolve("")
	require.NoError(t, err)
	require.Equal(t, first, p)
}

func TestRegistryUnknownProvider(t *testing.T) {
	reg := llm.NewRegistry()
	_, err := reg.Resolve("nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not registered")
}
