package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"
)

func testInstant() Instant {
	return Instant{
		Time:      time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		ThetaG:    1.234,
		Obliquity: 0.40905,
	}
}

func TestBatchPrecomputedTrig(t *testing.T) {
	b := NewBatch(testInstant(), []BodyPosition{
		{ID: Sun, Alpha: 1.0, Delta: 0.3, Lambda: 1.1},
		{ID: Mars, Alpha: 2.0, Delta: -0.4, Lambda: 2.1},
	})

	if got := b.SinDelta(Sun); math.Abs(got-math.Sin(0.3)) > 1e-15 {
		t.Errorf("SinDelta(Sun) = %v, want sin(0.3)", got)
	}
	if got := b.CosDelta(Mars); math.Abs(got-math.Cos(-0.4)) > 1e-15 {
		t.Errorf("CosDelta(Mars) = %v, want cos(-0.4)", got)
	}
	if got := b.TanDelta(Mars); math.Abs(got-math.Tan(-0.4)) > 1e-15 {
		t.Errorf("TanDelta(Mars) = %v, want tan(-0.4)", got)
	}

	if _, ok := b.Position(Venus); ok {
		t.Error("Position(Venus) should report missing body")
	}

	ids := b.Bodies()
	if len(ids) != 2 || ids[0] != Sun || ids[1] != Mars {
		t.Errorf("Bodies() = %v, want [Sun Mars] in id order", ids)
	}
}

func TestBatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		bodies  []BodyPosition
		wantErr error
	}{
		{
			name:    "valid",
			bodies:  []BodyPosition{{ID: Sun, Alpha: 1, Delta: 0.2, Lambda: 1}},
			wantErr: nil,
		},
		{
			name:    "empty",
			bodies:  nil,
			wantErr: ErrEmptySnapshot,
		},
		{
			name:    "NaN alpha",
			bodies:  []BodyPosition{{ID: Sun, Alpha: math.NaN(), Delta: 0.2, Lambda: 1}},
			wantErr: ErrNonFinite,
		},
		{
			name:    "declination out of range",
			bodies:  []BodyPosition{{ID: Sun, Alpha: 1, Delta: 2.0, Lambda: 1}},
			wantErr: ErrDeclRange,
		},
		{
			name:    "unnormalized alpha",
			bodies:  []BodyPosition{{ID: Sun, Alpha: 7.0, Delta: 0.2, Lambda: 1}},
			wantErr: ErrUnnormalized,
		},
		{
			name:    "negative lambda",
			bodies:  []BodyPosition{{ID: Sun, Alpha: 1, Delta: 0.2, Lambda: -0.1}},
			wantErr: ErrUnnormalized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch(testInstant(), tt.bodies)
			err := b.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseBody(t *testing.T) {
	for _, id := range []BodyID{Sun, Moon, Mercury, Pluto} {
		got, ok := ParseBody(id.String())
		if !ok || got != id {
			t.Errorf("ParseBody(%q) = %v, %v; want %v, true", id.String(), got, ok, id)
		}
	}
	if _, ok := ParseBody("Vulcan"); ok {
		t.Error("ParseBody should reject unknown bodies")
	}
}

func TestInstantAt(t *testing.T) {
	inst := InstantAt(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	if inst.ThetaG < 0 || inst.ThetaG >= 2*math.Pi {
		t.Errorf("ThetaG out of range: %v", inst.ThetaG)
	}
	if math.Abs(inst.Obliquity-0.409) > 0.001 {
		t.Errorf("Obliquity = %v rad, want ~0.409", inst.Obliquity)
	}
}
