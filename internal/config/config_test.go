package config

import "testing"

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "invalid profile", mutate: func(c *Config) { c.Merge.Profile = "bogus" }, wantErr: true},
		{name: "invalid meta density", mutate: func(c *Config) { c.Merge.MetaDensity = "bogus" }, wantErr: true},
		{name: "invalid mode", mutate: func(c *Config) { c.Merge.Mode = "bogus" }, wantErr: true},
		{name: "negative max bytes", mutate: func(c *Config) { c.Merge.MaxFileBytes = -1 }, wantErr: true},
		{name: "negative split size", mutate: func(c *Config) { c.Merge.SplitSize = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Merge: MergeConfig{
					Profile:     "dev",
					MetaDensity: "auto",
					Mode:        "combined",
				},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWalkerConfig_IncludesAll(t *testing.T) {
	if !(WalkerConfig{}).IncludesAll() {
		t.Error("empty include_paths should mean ALL")
	}
	if !(WalkerConfig{IncludePaths: []string{"ALL"}}).IncludesAll() {
		t.Error("explicit ALL sentinel should mean ALL")
	}
	if (WalkerConfig{IncludePaths: []string{"src/"}}).IncludesAll() {
		t.Error("a concrete whitelist should not mean ALL")
	}
}
