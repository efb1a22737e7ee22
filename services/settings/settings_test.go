package settings

import (
	"context"
	"testing"

	"villa-booking/config"
	settingModel "villa-booking/models/setting"
)

func TestMailConfigPrefersStoredSettings(t *testing.T) {
	cfg := &config.Config{MailHost: "env-host", MailPort: 587, MailFrom: "env@villa.test", MailRatePerSecond: 2}
	src := Static{
		settingModel.KeyMailHost: "smtp.villa.test",
		settingModel.KeyMailPort: "2525",
		settingModel.KeyMailFrom: "",
	}

	got := MailConfig(context.Background(), src, cfg)
	if got.Host != "smtp.villa.test" || got.Port != 2525 {
		t.Errorf("expected stored host/port, got %+v", got)
	}
	if got.From != "env@villa.test" {
		t.Errorf("empty stored value should fall back, got %q", got.From)
	}
	if got.RatePerSecond != 2 {
		t.Errorf("RatePerSecond = %v", got.RatePerSecond)
	}
}

func TestMailConfigBadPortFallsBack(t *testing.T) {
	cfg := &config.Config{MailPort: 465}
	got := MailConfig(context.Background(), Static{settingModel.KeyMailPort: "not-a-port"}, cfg)
	if got.Port != 465 {
		t.Errorf("Port = %d, want 465", got.Port)
	}
}
