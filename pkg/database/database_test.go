package database

import (
	"strings"
	"testing"
)

func TestConfigDSN(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      Config
		contains []string
		wantErr  bool
	}{
		{
			name: "postgres",
			cfg: Config{Driver: DriverPostgres, Host: "db", Port: "5432", User: "shop",
				Password: "secret", DBName: "jewellery", SSLMode: "disable"},
			contains: []string{"host=db", "port=5432", "dbname=jewellery", "sslmode=disable"},
		},
		{
			name:     "mysql",
			cfg:      Config{Driver: DriverMySQL, Host: "db", Port: "3306", User: "shop", Password: "secret", DBName: "jewellery"},
			contains: []string{"shop:secret@tcp(db:3306)/jewellery", "parseTime=true", "charset=utf8mb4"},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Driver: "oracle"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dsn, err := tc.cfg.DSN()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("DSN() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DSN() error = %v", err)
			}
			for _, part := range tc.contains {
				if !strings.Contains(dsn, part) {
					t.Errorf("DSN() = %q, want it to contain %q", dsn, part)
				}
			}
		})
	}
}
