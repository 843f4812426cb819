package principal

import (
	"encoding/hex"
	"testing"

	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestTextRoundTrip(t *testing.T) {
	cases := []struct {
		text string
		raw  []byte
	}{
		{"2vxsx-fae", []byte{0x04}},
		{"aaaaa-aa", []byte{}},
		{"ryjl3-tyaaa-aaaaa-aaaba-cai", mustHex(t, "00000000000000020101")},
		{"mxzaz-hqaaa-aaaar-qaada-cai", mustHex(t, "00000000023000060101")},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			p, err := Decode(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.raw, []byte(p))
			require.Equal(t, tc.text, Principal(tc.raw).String())
		})
	}
	require.True(t, Anonymous.IsAnonymous())
}

func TestMaxLengthPrincipal(t *testing.T) {
	raw := make([]byte, MaxLength)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	text := Principal(raw).String()
	require.Equal(t, "zy3kj-sybai-bqibi-ga4ea-scqlb-qgq4d-yqcej-bgfav-cylrq-gi2dm-ob2", text)
	p, err := Decode(text)
	require.NoError(t, err)
	require.Equal(t, raw, []byte(p))
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, text := range []string{
		"",
		"2vxsx-fab",                   // checksum mismatch
		"2VXSX-FAE",                   // not canonical
		"2vxsxfae",                    // missing dash
		"not a principal!",            // bad alphabet
		"ryjl3-tyaaa-aaaaa-aaaba-caj", // corrupted last char
	} {
		_, err := Decode(text)
		require.ErrorIs(t, err, apperror.ErrInvalidInput, text)
	}
}

func TestAccountIdentifier(t *testing.T) {
	cases := map[string]string{
		"2vxsx-fae":                   "1c7a48ba6a562aa9eaa2481a9049cdf0433b9738c992d698c31d8abf89cadc79",
		"ryjl3-tyaaa-aaaaa-aaaba-cai": "883eef7c44be51afe4a4420d4df4beff708f3cf2f5de5efcc9f58680bb0f3690",
		"mxzaz-hqaaa-aaaar-qaada-cai": "eff69ed8f9fc03ceba97e6f4e1a9d1a32641fcd49aba96922c51a7dca91a4c6e",
		"zy3kj-sybai-bqibi-ga4ea-scqlb-qgq4d-yqcej-bgfav-cylrq-gi2dm-ob2": "9c5e840d1c670fc4c82476c183f4c79e9507dbe24fcf46116254fff6840dfffc",
	}
	for text, want := range cases {
		got, err := AddressFromText(text)
		require.NoError(t, err)
		require.Equal(t, want, got, text)
	}

	// explicit zero subaccount matches the default
	p, err := Decode("2vxsx-fae")
	require.NoError(t, err)
	require.Equal(t, NewAccountIdentifier(p, nil), NewAccountIdentifier(p, &Subaccount{}))

	sub := Subaccount{31: 1}
	require.NotEqual(t, NewAccountIdentifier(p, nil), NewAccountIdentifier(p, &sub))
}

func TestSelfAuthenticating(t *testing.T) {
	p := SelfAuthenticating([]byte("https://idp.example/realms/dao#alice"))
	require.Len(t, p, MaxLength)
	require.Equal(t, byte(0x02), p[len(p)-1])

	back, err := Decode(p.String())
	require.NoError(t, err)
	require.Equal(t, p, back)
	require.False(t, back.IsAnonymous())
}
