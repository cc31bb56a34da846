// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"
)

var sink []byte

func BenchmarkPrettyInt64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendInt64(buf, rand.Int64()) //#nosec G404
	}
}

func BenchmarkPrettyUint64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendUint64(buf, rand.Uint64(), false) //#nosec G404
	}
}

func TestPrettyBigInt(t *testing.T) {
	tests := []struct {
		int string
		s   string
	}{
		{"111222333444555678999", "111,222,333,444,555,678,999"},
		{"-111222333444555678999", "-111,222,333,444,555,678,999"},
		{"11122233344455567899900", "11,122,233,344,455,567,899,900"},
		{"-11122233344455567899900", "-11,122,233,344,455,567,899,900"},
	}

	for _, tt := range tests {
		v, _ := new(big.Int).SetString(tt.int, 10)
		if have, want := string(appendBigInt(nil, v)), tt.s; have != want {
			t.Errorf("invalid output %s, want %s", have, want)
		}
	}
}

func TestPrettyUint64(t *testing.T) {
	tests := []struct {
		n uint64
		s string
	}{
		{0, "0"},
		{99999, "99999"},
		{100000, "100,000"},
		{18446744073709551615, "18,446,744,073,709,551,615"},
	}
	for _, tt := range tests {
		if have := FormatLogfmtUint64(tt.n); have != tt.s {
			t.Errorf("invalid output %s, want %s", have, tt.s)
		}
	}
}

func TestTerminalHandlerWithAttrs(t *testing.T) {
	out := new(bytes.Buffer)
	glog := NewLogger(NewTerminalHandlerWithLevel(out, new(slog.LevelVar), false).WithAttrs([]slog.Attr{slog.String("pkg", "staker")}))
	glog.Info("stake added", "amount", big.NewInt(1_000_000))

	have := out.String()
	if !strings.Contains(have, "pkg=staker") || !strings.Contains(have, "amount=1,000,000") {
		t.Errorf("unexpected output %q", have)
	}
}

func TestFromLegacyLevel(t *testing.T) {
	if FromLegacyLevel(3) != slog.LevelInfo {
		t.Error("legacy 3 should be info")
	}
	if FromLegacyLevel(9) != LevelTrace {
		t.Error("out-of-range verbosity should clamp to trace")
	}
	if FromLegacyLevel(-1) != LevelCrit {
		t.Error("negative verbosity should clamp to crit")
	}
}
