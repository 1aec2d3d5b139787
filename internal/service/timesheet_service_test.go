package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sgsprojects/timesheet-api/internal/models"
	"github.com/sgsprojects/timesheet-api/internal/repository"
	"github.com/sgsprojects/timesheet-api/internal/servicelayer"
)

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func newGatewayTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&repository.SequenceCounter{}))
	require.NoError(t, db.Exec(`CREATE TABLE "@SGS_PRJ_OTMS" ("DocEntry" INTEGER, "Code" TEXT)`).Error)

	return db
}

func newGatewayService(t *testing.T, handler http.HandlerFunc) *TimesheetService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/Login" {
			http.SetCookie(w, &http.Cookie{Name: "B1SESSION", Value: "sess-1"})
			_ = json.NewEncoder(w).Encode(map[string]string{"SessionId": "sess-1"})
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	client := servicelayer.New(srv.URL, "TESTDB")
	credentials := repository.NewCredentialStore()
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))
	cache := repository.NewSessionCache(redisClient, time.Minute)
	broker := NewSessionBroker(client, credentials, cache)

	return NewTimesheetService(newGatewayTestDB(t), broker, client)
}

func TestCreateTimesheetAllocatesCodeAndDefaults(t *testing.T) {
	var posted map[string]interface{}

	svc := newGatewayService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/UDO_SGS_PRJ_OTMS", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))

		var doc servicelayer.TimesheetDocument
		raw, _ := json.Marshal(posted)
		_ = json.Unmarshal(raw, &doc)
		doc.DocEntry = intPtr(101)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(doc)
	})

	req := models.TimesheetCreateRequest{
		Date:        "2026-08-14",
		ResId:       "12",
		Project:     "PRJ001",
		ActivityId:  "DEV",
		Hours:       7.5,
		Description: strPtr("feature work"),
		TimeStart:   intPtr(830),
		TimeEnd:     intPtr(1700),
	}

	timesheet, err := svc.CreateTimesheet(context.Background(), "caller-1", req)
	require.NoError(t, err)

	require.Equal(t, "1", posted["Code"])
	require.Equal(t, "Draft", posted["U_Status"])
	require.Equal(t, "08:30", posted["U_TimeStart"])
	require.Equal(t, "17:00", posted["U_TimeEnd"])
	require.Equal(t, 7.5, posted["U_TimeNrNet"])

	require.Equal(t, intPtr(101), timesheet.DocEntry)
	require.Equal(t, strPtr("1"), timesheet.Code)
	require.Equal(t, intPtr(830), timesheet.TimeStart)
	require.Equal(t, intPtr(1700), timesheet.TimeEnd)
	require.Equal(t, "2026-08-14", timesheet.Date.Format("2006-01-02"))
}

func TestCreateTimesheetInvalidDate(t *testing.T) {
	svc := newGatewayService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	})

	_, err := svc.CreateTimesheet(context.Background(), "caller-1", models.TimesheetCreateRequest{
		Date:       "14.08.2026",
		ResId:      "12",
		Project:    "PRJ001",
		ActivityId: "DEV",
	})
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestUpdateTimesheetSendsOnlySetFields(t *testing.T) {
	var patched map[string]interface{}

	svc := newGatewayService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.RawQuery, "DocEntry"):
			_, _ = w.Write([]byte(`{"value":[{"Code":"42","DocEntry":7}]}`))
		case r.Method == http.MethodPatch:
			require.Equal(t, "/UDO_SGS_PRJ_OTMS('42')", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"Code":"42","DocEntry":7,"U_TimeNrNet":2.5,"U_DescExt":"adjusted","U_Date":"2026-08-14T00:00:00Z"}`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL)
		}
	})

	req := models.TimesheetUpdateRequest{
		DocEntry:    7,
		Hours:       floatPtr(2.5),
		Description: strPtr("adjusted"),
	}

	timesheet, err := svc.UpdateTimesheet(context.Background(), "caller-1", req)
	require.NoError(t, err)

	// Unset fields must never reach the ERP, it would blank them.
	require.Len(t, patched, 2)
	require.Equal(t, 2.5, patched["U_TimeNrNet"])
	require.Equal(t, "adjusted", patched["U_DescExt"])

	require.Equal(t, strPtr("42"), timesheet.Code)
	require.Equal(t, floatPtr(2.5), timesheet.TimeNrNet)
	require.Equal(t, "2026-08-14", timesheet.Date.Format("2006-01-02"))
}

func TestUpdateTimesheetUnknownDocEntry(t *testing.T) {
	svc := newGatewayService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":[]}`))
	})

	_, err := svc.UpdateTimesheet(context.Background(), "caller-1", models.TimesheetUpdateRequest{
		DocEntry: 999,
		Hours:    floatPtr(1),
	})
	require.ErrorIs(t, err, servicelayer.ErrNotFound)
}

func TestDeleteTimesheet(t *testing.T) {
	svc := newGatewayService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/UDO_SGS_PRJ_OTMS('42')", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	deleted, err := svc.DeleteTimesheet(context.Background(), "caller-1", "42")
	require.NoError(t, err)
	require.True(t, deleted)
}

func TestDeleteTimesheetAbsentRecord(t *testing.T) {
	svc := newGatewayService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"No matching records found"}}`))
	})

	deleted, err := svc.DeleteTimesheet(context.Background(), "caller-1", "999")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestBuildUpdateFieldsValidatesDate(t *testing.T) {
	_, err := buildUpdateFields(models.TimesheetUpdateRequest{
		DocEntry: 1,
		Date:     strPtr("not-a-date"),
	})
	require.ErrorIs(t, err, ErrInvalidDate)
}
