package qrpayload

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewAndEncode(t *testing.T) {
	p, err := New("PROV_A1B2C3", "abcd1234", TransportBLE)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	data, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) > MaxPayloadSize {
		t.Errorf("payload %d bytes exceeds bound %d", len(data), MaxPayloadSize)
	}

	want := `{"ver":"v1","name":"PROV_A1B2C3","pop":"abcd1234","transport":"ble"}`
	if string(data) != want {
		t.Errorf("Encode = %s, want %s", data, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	p, err := New("PROV_FFFFFF", "00c0ffee", TransportBLE)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	data, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if *got != *p {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}

	// Exactly four keys, no extras
	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(keys) != 4 {
		t.Errorf("expected exactly 4 keys, got %d: %v", len(keys), keys)
	}
	for _, k := range []string{"ver", "name", "pop", "transport"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
}

func TestEncodeBoundedForMaxFields(t *testing.T) {
	// Worst case: maximum-length name and PoP must still fit the buffer.
	name := strings.Repeat("N", MaxNameLength)
	pop := strings.Repeat("P", MaxPoPLength)

	p, err := New(name, pop, TransportBLE)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	data, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) > MaxPayloadSize {
		t.Errorf("worst-case payload %d bytes exceeds bound %d", len(data), MaxPayloadSize)
	}
}

func TestNewRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name      string
		svcName   string
		pop       string
		transport string
	}{
		{"empty name", "", "abcd1234", TransportBLE},
		{"empty pop", "PROV_A1B2C3", "", TransportBLE},
		{"name too long", strings.Repeat("N", MaxNameLength+1), "abcd1234", TransportBLE},
		{"pop too long", "PROV_A1B2C3", strings.Repeat("P", MaxPoPLength+1), TransportBLE},
		{"unknown transport", "PROV_A1B2C3", "abcd1234", "softap"},
		{"empty transport", "PROV_A1B2C3", "abcd1234", ""},
		{"invalid utf8 name", "PROV_\xff\xfe", "abcd1234", TransportBLE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.svcName, tt.pop, tt.transport); err == nil {
				t.Errorf("New(%q, %q, %q) succeeded, want error", tt.svcName, tt.pop, tt.transport)
			}
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "PROV_A1B2C3"},
		{"extra key", `{"ver":"v1","name":"a","pop":"b","transport":"ble","extra":"x"}`},
		{"wrong version", `{"ver":"v2","name":"a","pop":"b","transport":"ble"}`},
		{"missing name", `{"ver":"v1","pop":"b","transport":"ble"}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.data)
			}
		})
	}
}
