//go:build integration_pg

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/warp/payroll-engine/directory"
	"github.com/warp/payroll-engine/payroll"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "payroll",
				"POSTGRES_PASSWORD": "payroll",
				"POSTGRES_DB":       "payroll",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://payroll:payroll@%s:%s/payroll?sslmode=disable", host, port.Port())
}

func TestPostgresStore_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := Open(ctx, Config{URL: dsn, MaxConns: 4})
	require.NoError(t, err)
	defer s.Close()

	t.Run("entries inclusive and ordered", func(t *testing.T) {
		day := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)
		_, err := s.InsertEntry(ctx, day.Add(17*time.Hour), payroll.EntryOut)
		require.NoError(t, err)
		in, err := s.InsertEntry(ctx, day.Add(9*time.Hour), payroll.EntryIn)
		require.NoError(t, err)

		got, err := s.ListEntries(ctx, day.Add(9*time.Hour), day.Add(17*time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, in.ID, got[0].ID)
		assert.Equal(t, time.UTC, got[0].PunchTime.Location())
	})

	t.Run("rate default and update", func(t *testing.T) {
		rate, err := s.CurrentRate(ctx)
		require.NoError(t, err)
		assert.True(t, rate.Equal(payroll.DefaultHourlyRate))

		require.NoError(t, s.UpdateRate(ctx, decimal.RequireFromString("21.25")))
		rate, err = s.CurrentRate(ctx)
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("21.25")))
	})

	t.Run("directory", func(t *testing.T) {
		roleID, err := s.CreateRole(ctx, "Chauffeur")
		require.NoError(t, err)
		siteID, err := s.CreateSite(ctx, "Cobac-Libreville", "Libreville, Gabon")
		require.NoError(t, err)
		id, err := s.CreateEmployee(ctx, directory.EmployeeInput{
			Name: "Marie", LastName: "Nze", RoleID: roleID, SiteID: siteID, HourlyRate: decimal.NewFromInt(11),
		})
		require.NoError(t, err)

		require.NoError(t, s.FireEmployee(ctx, id, time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, s.DeleteSite(ctx, siteID))

		emps, err := s.ListEmployees(ctx)
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, directory.StatusInactive, emps[0].Status)
		require.NotNil(t, emps[0].FireDate)
		assert.Nil(t, emps[0].SiteID)
		assert.Equal(t, "Chauffeur", emps[0].Role)

		assert.ErrorIs(t, s.DeleteRole(ctx, 9999), directory.ErrNotFound)
	})
}
