package warehouse

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExclusions(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		expected  ExclusionMap
		expectErr bool
		errMsg    string
	}{
		{
			name: "groups rows by table",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"table_name", "field_name"}).
					AddRow("CUSTOMERS", "EMAIL").
					AddRow("ORDERS", "DOB").
					AddRow("ORDERS", "SSN")
				mock.ExpectQuery("SELECT table_name, field_name FROM cdc_field_exclude_list").WillReturnRows(rows)
			},
			expected: ExclusionMap{
				"CUSTOMERS": {"EMAIL"},
				"ORDERS":    {"DOB", "SSN"},
			},
		},
		{
			name: "upper-cases table and field names",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"table_name", "field_name"}).
					AddRow("orders", "ssn").
					AddRow("Orders", "Dob")
				mock.ExpectQuery("SELECT table_name, field_name").WillReturnRows(rows)
			},
			expected: ExclusionMap{
				"ORDERS": {"SSN", "DOB"},
			},
		},
		{
			name: "empty result set",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"table_name", "field_name"})
				mock.ExpectQuery("SELECT table_name, field_name").WillReturnRows(rows)
			},
			expected: ExclusionMap{},
		},
		{
			name: "query failure",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT table_name, field_name").WillReturnError(assert.AnError)
			},
			expectErr: true,
			errMsg:    "loading exclude reference list (query)",
		},
		{
			name: "row error mid-iteration",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"table_name", "field_name"}).
					AddRow("ORDERS", "SSN").
					RowError(0, assert.AnError)
				mock.ExpectQuery("SELECT table_name, field_name").WillReturnRows(rows)
			},
			expectErr: true,
			errMsg:    "loading exclude reference list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setupMock(mock)
			client := &Client{DB: db}

			excl, err := client.LoadExclusions(context.Background())
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				var refErr *RefLoadError
				assert.ErrorAs(t, err, &refErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, excl)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLoadExclusions_NotConnected(t *testing.T) {
	client := &Client{}

	_, err := client.LoadExclusions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection not established")
}

func TestClientClose(t *testing.T) {
	t.Run("close with nil DB", func(t *testing.T) {
		client := &Client{}
		assert.NoError(t, client.Close())
	})

	t.Run("close with open DB", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()

		client := &Client{DB: db}
		assert.NoError(t, client.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExclusionMapTables(t *testing.T) {
	m := ExclusionMap{
		"ORDERS":    {"SSN"},
		"ACCOUNTS":  {"PIN"},
		"CUSTOMERS": {"EMAIL"},
	}
	assert.Equal(t, []string{"ACCOUNTS", "CUSTOMERS", "ORDERS"}, m.Tables())
}
