// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("staker"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x1234"`), &decoded))
}

func TestAddressYAML(t *testing.T) {
	var out struct {
		Owner Address `yaml:"owner"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("owner: \"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed\"\n"), &out))
	assert.Equal(t, MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), out.Owner)

	assert.Error(t, yaml.Unmarshal([]byte("owner: nope\n"), &out))
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"0X7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
	}
	assert.Panics(t, func() { MustParseAddress("0x01") })
	assert.True(t, Address{}.IsZero())
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("master"))
	data, err := json.Marshal(&b)
	require.NoError(t, err)
	assert.Equal(t, `"0x00000000000000000000000000000000000000000000000000006d6173746572"`, string(data))

	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
	assert.False(t, decoded.IsZero())
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}
