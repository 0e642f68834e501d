package identity

import (
	"testing"
)

func TestServiceName(t *testing.T) {
	tests := []struct {
		name string
		mac  [6]byte
		want string
	}{
		{"typical", [6]byte{0x24, 0x6F, 0x28, 0xA1, 0xB2, 0xC3}, "PROV_A1B2C3"},
		{"zero suffix", [6]byte{0xDE, 0xAD, 0xBE, 0x00, 0x00, 0x00}, "PROV_000000"},
		{"max suffix", [6]byte{0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF}, "PROV_FFFFFF"},
		{"low nibbles", [6]byte{0x12, 0x34, 0x56, 0x07, 0x08, 0x09}, "PROV_070809"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ServiceName(tt.mac)
			if got != tt.want {
				t.Errorf("ServiceName(%v) = %q, want %q", tt.mac, got, tt.want)
			}
			if len(got) != ServiceNameLength {
				t.Errorf("ServiceName(%v) length = %d, want %d", tt.mac, len(got), ServiceNameLength)
			}
		})
	}
}

func TestServiceNameDeterministic(t *testing.T) {
	mac := [6]byte{0x24, 0x6F, 0x28, 0xA1, 0xB2, 0xC3}
	first := ServiceName(mac)
	for i := 0; i < 10; i++ {
		if got := ServiceName(mac); got != first {
			t.Fatalf("ServiceName not deterministic: %q != %q", got, first)
		}
	}
}

func TestGenerateSecret(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		secret, err := GenerateSecret()
		if err != nil {
			t.Fatalf("GenerateSecret failed: %v", err)
		}
		if len(secret) != SecretLength {
			t.Fatalf("secret length = %d, want %d", len(secret), SecretLength)
		}
		seen[string(secret)] = true
	}
	if len(seen) != 50 {
		t.Errorf("expected 50 unique secrets, got %d", len(seen))
	}
}

func TestDerivePoP(t *testing.T) {
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}

	pop, err := DerivePoP(secret)
	if err != nil {
		t.Fatalf("DerivePoP failed: %v", err)
	}
	if len(pop) != PoPLength {
		t.Errorf("PoP length = %d, want %d", len(pop), PoPLength)
	}

	// Same secret, same PoP
	again, err := DerivePoP(secret)
	if err != nil {
		t.Fatalf("DerivePoP failed: %v", err)
	}
	if again != pop {
		t.Errorf("DerivePoP not deterministic: %q != %q", again, pop)
	}

	// Different secret, different PoP
	other, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	otherPoP, err := DerivePoP(other)
	if err != nil {
		t.Fatalf("DerivePoP failed: %v", err)
	}
	if otherPoP == pop {
		t.Errorf("distinct secrets produced the same PoP %q", pop)
	}
}

func TestDerivePoPRejectsBadSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"short", make([]byte, 16)},
		{"long", make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DerivePoP(tt.secret); err == nil {
				t.Errorf("DerivePoP(%d bytes) succeeded, want error", len(tt.secret))
			}
		})
	}
}
