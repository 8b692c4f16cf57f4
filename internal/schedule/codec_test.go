package schedule

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/secure"
)

func testCipher(t *testing.T) secure.Cipher {
	t.Helper()
	c, err := secure.NewXChaCha(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	return c
}

func TestDecodeDocument(t *testing.T) {
	c := testCipher(t)

	sealed, err := encodeDocument(c, []model.Medication{{ID: "m1"}})
	require.NoError(t, err)
	meds, how := decodeDocument[[]model.Medication](c, sealed)
	assert.Equal(t, Decrypted, how)
	require.Len(t, meds, 1)
	assert.Equal(t, "m1", meds[0].ID)

	meds, how = decodeDocument[[]model.Medication](c, `[{"id":"legacy"}]`)
	assert.Equal(t, LegacyPlaintext, how)
	require.Len(t, meds, 1)
	assert.Equal(t, "legacy", meds[0].ID)

	meds, how = decodeDocument[[]model.Medication](c, `{not json`)
	assert.Equal(t, Corrupt, how)
	assert.Nil(t, meds)

	notJSON, err := c.Encrypt([]byte("plain words"))
	require.NoError(t, err)
	_, how = decodeDocument[[]model.Medication](c, notJSON)
	assert.Equal(t, Corrupt, how)

	_, how = decodeDocument[[]model.Medication](c, "")
	assert.Equal(t, Absent, how)
}

func TestDecodeDocument_NoCipher(t *testing.T) {
	raw, err := encodeDocument(nil, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, raw)

	v, how := decodeDocument[[]string](nil, raw)
	assert.Equal(t, LegacyPlaintext, how)
	assert.Equal(t, []string{"x"}, v)
}

func TestDecoding_String(t *testing.T) {
	assert.Equal(t, "decrypted", Decrypted.String())
	assert.Equal(t, "legacy-plaintext", LegacyPlaintext.String())
	assert.Equal(t, "corrupt", Corrupt.String())
	assert.Equal(t, "absent", Absent.String())
}
