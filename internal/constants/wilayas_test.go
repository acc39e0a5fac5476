package constants

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWilayaTableLoaded(t *testing.T) {
	require.Equal(t, 58, WilayaCount())
}

func TestWilayaCode(t *testing.T) {
	code, ok := WilayaCode("الجزائر")
	require.True(t, ok)
	require.Equal(t, "16", code)

	code, ok = WilayaCode("أدرار")
	require.True(t, ok)
	require.Equal(t, "01", code)

	code, ok = WilayaCode("المنيعة")
	require.True(t, ok)
	require.Equal(t, "58", code)
}

func TestWilayaCodeStripsParenthetical(t *testing.T) {
	code, ok := WilayaCode("الجزائر (العاصمة)")
	require.True(t, ok)
	require.Equal(t, "16", code)

	code, ok = WilayaCode("  وهران ")
	require.True(t, ok)
	require.Equal(t, "31", code)
}

func TestWilayaCodeUnknown(t *testing.T) {
	_, ok := WilayaCode("ولاية غير موجودة")
	require.False(t, ok)

	_, ok = WilayaCode("")
	require.False(t, ok)
}

func TestIsHomeCountry(t *testing.T) {
	require.True(t, IsHomeCountry("الجزائر"))
	require.True(t, IsHomeCountry("Algeria"))
	require.True(t, IsHomeCountry("algérie"))
	require.False(t, IsHomeCountry("فرنسا"))
	require.False(t, IsHomeCountry("France"))
	require.False(t, IsHomeCountry(""))
}

func TestSubscriptionAmounts(t *testing.T) {
	require.Equal(t, int64(3000), SubscriptionAmounts[SubscriptionType2])
	require.Len(t, SubscriptionAmounts, 4)
	require.True(t, IsValidSubscriptionType("type_4"))
	require.False(t, IsValidSubscriptionType("type_5"))
}
