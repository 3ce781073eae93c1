package source

import (
	"testing"
	"time"
)

func TestParseCSV_Basic(t *testing.T) {
	text := "Tipus,Categoria,Data,Valor\n" +
		"Energia,Consum,2024-01-05,310\n" +
		"Aigua,Consum,2024-01-06,5200\n"

	recs := ParseCSV(text)
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Type() != "Energia" || recs[0].Value() != "310" {
		t.Errorf("recs[0] = %v", recs[0])
	}
	if recs[1].Type() != "Aigua" || recs[1].Date() != "2024-01-06" {
		t.Errorf("recs[1] = %v", recs[1])
	}
}

func TestParseCSV_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		count int
		check func(t *testing.T, got []map[string]string)
	}{
		{
			name:  "empty input",
			text:  "",
			count: 0,
		},
		{
			name:  "header only",
			text:  "Tipus,Categoria,Data,Valor\n",
			count: 0,
		},
		{
			name:  "blank lines skipped",
			text:  "Tipus,Categoria,Data,Valor\n\n   \nEnergia,Consum,2024-01-05,310\n\n",
			count: 1,
		},
		{
			name:  "crlf line endings",
			text:  "Tipus,Categoria,Data,Valor\r\nEnergia,Consum,2024-01-05,310\r\n",
			count: 1,
			check: func(t *testing.T, got []map[string]string) {
				if got[0]["Valor"] != "310" {
					t.Errorf("Valor = %q, want 310", got[0]["Valor"])
				}
			},
		},
		{
			name:  "short row padded",
			text:  "Tipus,Categoria,Data,Valor\nEnergia,Consum\n",
			count: 1,
			check: func(t *testing.T, got []map[string]string) {
				v, ok := got[0]["Valor"]
				if !ok || v != "" {
					t.Errorf("Valor = %q (present=%v), want empty and present", v, ok)
				}
			},
		},
		{
			name:  "extra values ignored",
			text:  "Tipus,Valor\nEnergia,310,extra,more\n",
			count: 1,
			check: func(t *testing.T, got []map[string]string) {
				if len(got[0]) != 2 {
					t.Errorf("fields = %d, want 2", len(got[0]))
				}
			},
		},
		{
			name:  "utf-8 bom header",
			text:  "\ufeffTipus,Categoria,Data,Valor\r\nEnergia,Consum,2024-01-05,310\r\n",
			count: 1,
			check: func(t *testing.T, got []map[string]string) {
				if got[0]["Tipus"] != "Energia" {
					t.Errorf("Tipus = %q, want Energia (record %v)", got[0]["Tipus"], got[0])
				}
			},
		},
		{
			name:  "header whitespace trimmed",
			text:  " Tipus , Valor \nEnergia, 12 \n",
			count: 1,
			check: func(t *testing.T, got []map[string]string) {
				if got[0]["Tipus"] != "Energia" || got[0]["Valor"] != "12" {
					t.Errorf("record = %v", got[0])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := ParseCSV(tt.text)
			if len(recs) != tt.count {
				t.Fatalf("len = %d, want %d", len(recs), tt.count)
			}
			if tt.check != nil {
				plain := make([]map[string]string, len(recs))
				for i, r := range recs {
					plain[i] = r
				}
				tt.check(t, plain)
			}
		})
	}
}

func TestParseCSV_PreservesOrder(t *testing.T) {
	text := "Tipus,Valor\nc,3\na,1\nb,2\n"
	recs := ParseCSV(text)
	want := []string{"c", "a", "b"}
	for i, w := range want {
		if recs[i].Type() != w {
			t.Errorf("recs[%d].Type() = %q, want %q", i, recs[i].Type(), w)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in string
		ok bool
	}{
		{"2024-03-07", true},
		{"2024-03-07T00:00:00Z", true},
		{"2024-03-07 00:00:00", true},
		{"2024/03/07", true},
		{"03/07/2024", true},
		{"3/7/2024", true},
		{"31/12/2024", false},
		{"not-a-date", false},
		{"", false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, want)
		}
	}
	if got, ok := ParseDate("12/31/2024"); !ok || !got.Equal(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(12/31/2024) = %v, %v; want 2024-12-31", got, ok)
	}
}
