// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package iputil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskToPrefixLen(t *testing.T) {
	tests := []struct {
		mask string
		want int
		err  bool
	}{
		{mask: "255.255.255.0", want: 24},
		{mask: "255.255.255.255", want: 32},
		{mask: "0.0.0.0", want: 0},
		{mask: "255.255.240.0", want: 20},
		{mask: "255.0.255.0", err: true},
		{mask: "255.255.255", err: true},
		{mask: "ffff::", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.mask, func(t *testing.T) {
			got, err := MaskToPrefixLen(tt.mask)
			if tt.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPrefixLenToMask(t *testing.T) {
	mask, err := PrefixLenToMask(22)
	require.NoError(t, err)
	require.Equal(t, "255.255.252.0", mask)

	_, err = PrefixLenToMask(33)
	require.Error(t, err)
}

func TestNetworkAndMask(t *testing.T) {
	network, mask, err := NetworkAndMask("10.0.1.7/24")
	require.NoError(t, err)
	require.Equal(t, "10.0.1.0", network)
	require.Equal(t, "255.255.255.0", mask)

	addr, mask, err := AddressAndMask("10.0.1.7/24")
	require.NoError(t, err)
	require.Equal(t, "10.0.1.7", addr)
	require.Equal(t, "255.255.255.0", mask)

	_, _, err = NetworkAndMask("2001:db8::/32")
	require.Error(t, err)

	_, _, err = NetworkAndMask("10.0.1.7")
	require.Error(t, err)
}

func TestPrefixFromAddrMask(t *testing.T) {
	prefix, err := PrefixFromAddrMask("192.168.10.77", "255.255.255.192")
	require.NoError(t, err)
	require.Equal(t, "192.168.10.64/26", prefix)

	_, err = PrefixFromAddrMask("192.168.10.777", "255.255.255.192")
	require.Error(t, err)

	_, err = PrefixFromAddrMask("192.168.10.77", "255.0.255.0")
	require.Error(t, err)
}

func TestRange(t *testing.T) {
	first, last, err := Range("192.168.1.0/24")
	require.NoError(t, err)
	require.Equal(t, "192.168.1.0", first)
	require.Equal(t, "192.168.1.255", last)

	size, err := Size("192.168.1.0/26")
	require.NoError(t, err)
	require.Equal(t, "64", size)
}

func TestContains(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
		err  bool
	}{
		{name: "single", in: "10.10.0.5", want: true},
		{name: "range", in: "10.10.0.5-10.10.0.50", want: true},
		{name: "outside", in: "10.11.0.5", want: false},
		{name: "range-outside", in: "10.10.0.5-10.10.1.50", want: false},
		{name: "invalid", in: "10.10.0.500", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Contains("10.10.0.0/24", tt.in)
			if tt.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
