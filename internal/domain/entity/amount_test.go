package entity

import (
	"encoding/json"
	"testing"
)

func TestParseYen(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"5250", 5250, true},
		{"5,250", 5250, true},
		{"¥5,250", 5250, true},
		{"￥ 5,250 円", 5250, true},
		{"1234.6", 1235, true},
		{"", 0, false},
		{"  ", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseYen(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseYen(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestApplication_UnmarshalAmount(t *testing.T) {
	body := `[
		{"applicationId":"APP-1","amount":10000,"checkStatus":"未確認"},
		{"applicationId":"APP-2","amount":""},
		{"applicationId":"APP-3","amount":"¥5,250"},
		{"applicationId":"APP-4","amount":"未定"},
		{"applicationId":"APP-5","amount":null},
		{"applicationId":"APP-6"}
	]`
	var apps []*Application
	if err := json.Unmarshal([]byte(body), &apps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []int64{10000, 0, 5250, 0, 0, 0}
	if len(apps) != len(want) {
		t.Fatalf("got %d apps, want %d", len(apps), len(want))
	}
	for i, app := range apps {
		if app.Amount != want[i] {
			t.Errorf("%s: amount = %d, want %d", app.ApplicationID, app.Amount, want[i])
		}
	}
	if apps[0].CheckStatus != "未確認" {
		t.Errorf("other fields not decoded: %+v", apps[0])
	}
}
