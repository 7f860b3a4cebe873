package severity

import (
	"encoding/json"
	"testing"
)

func TestTier_StringAndSLA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier     Tier
		wantName string
		wantSLA  string
	}{
		{Low, "Low", "48 hours"},
		{Medium, "Medium", "24 hours"},
		{High, "High", "2-4 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			t.Parallel()
			if got := tt.tier.String(); got != tt.wantName {
				t.Errorf("String() = %q, want %q", got, tt.wantName)
			}
			if got := tt.tier.SLA(); got != tt.wantSLA {
				t.Errorf("SLA() = %q, want %q", got, tt.wantSLA)
			}
		})
	}

	if got := Tier(7).String(); got != "Tier(7)" {
		t.Errorf("String() of invalid tier = %q, want %q", got, "Tier(7)")
	}
}

func TestTier_Ordering(t *testing.T) {
	t.Parallel()

	if !(Low < Medium && Medium < High) {
		t.Fatal("expected Low < Medium < High")
	}
	if Tiers[0] != High || Tiers[len(Tiers)-1] != Low {
		t.Errorf("Tiers = %v, want descending order", Tiers)
	}
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"High", High, false},
		{"high", High, false},
		{" MEDIUM ", Medium, false},
		{"low", Low, false},
		{"0", Low, false},
		{"1", Medium, false},
		{"2", High, false},
		{"urgent", 0, true},
		{"", 0, true},
		{"3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTier(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTier(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTier_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Result{Score: 9, Priority: High, SLA: High.SLA()})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"score":9,"priority":"High","sla":"2-4 hours"}`
	if string(b) != want {
		t.Errorf("Marshal = %s, want %s", b, want)
	}

	var examples []Example
	in := `[{"text":"a","tier":2},{"text":"b","tier":"medium"},{"text":"c","tier":"Low"}]`
	if err := json.Unmarshal([]byte(in), &examples); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	wantTiers := []Tier{High, Medium, Low}
	for i, ex := range examples {
		if ex.Tier != wantTiers[i] {
			t.Errorf("examples[%d].Tier = %v, want %v", i, ex.Tier, wantTiers[i])
		}
	}

	for _, bad := range []string{`{"tier":5}`, `{"tier":"critical"}`, `{"tier":true}`} {
		var ex Example
		if err := json.Unmarshal([]byte(bad), &ex); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", bad)
		}
	}

	if _, err := json.Marshal(Tier(9)); err == nil {
		t.Error("Marshal of invalid tier succeeded, want error")
	}
}
