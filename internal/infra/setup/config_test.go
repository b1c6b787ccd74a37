package setup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijitam01/drawr/internal/infra/setup"
)

func TestDBConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  setup.DBConfig
		want string
	}{
		{
			name: "mysql defaults",
			cfg:  setup.DBConfig{User: "u", Password: "p"},
			want: "u:p@tcp(127.0.0.1:3306)/drawr?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "postgres",
			cfg:  setup.DBConfig{Driver: setup.DriverPostgres, User: "u", Password: "p", Host: "db", Name: "boards"},
			want: "host=db user=u password=p dbname=boards port=5432 sslmode=disable TimeZone=UTC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := tt.cfg.DSN()
			require.NoError(t, err)
			assert.Equal(t, tt.want, dsn)
		})
	}
}

func TestDBConfig_DSN_Errors(t *testing.T) {
	_, err := setup.DBConfig{}.DSN()
	assert.Error(t, err, "missing user")

	_, err = setup.DBConfig{Driver: "sqlite", User: "u"}.DSN()
	assert.Error(t, err, "unknown driver")
}
