package listemploymenttypes

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/store/storetest"
)

func newHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, sqlMock := storetest.NewMock(t)
	return NewHandler(&Config{Timeout: 5 * time.Second}, db, logger.NewTestLogger(t)), sqlMock
}

func TestHandler_Execute(t *testing.T) {
	h, m := newHandler(t)
	m.ExpectQuery(`FROM employment_types ORDER BY employment_type`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employment_type", "created_at", "updated_at"}).
			AddRow(int64(1), "Civil servant", storetest.FixedTime, storetest.FixedTime).
			AddRow(int64(2), "Self-employed", storetest.FixedTime, storetest.FixedTime))

	out, err := h.Execute(context.Background(), &Input{Actor: &models.CurrentUser{ID: 1, Kind: models.KindAdmin}})

	require.NoError(t, err)
	require.Len(t, out.EmploymentTypes, 2)
	assert.Equal(t, "Civil servant", out.EmploymentTypes[0].EmploymentType)
}

func TestHandler_Execute_EmptyListIsNotNil(t *testing.T) {
	h, m := newHandler(t)
	m.ExpectQuery(`FROM employment_types`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employment_type", "created_at", "updated_at"}))

	out, err := h.Execute(context.Background(), &Input{Actor: &models.CurrentUser{ID: 1, Kind: models.KindAdmin}})

	require.NoError(t, err)
	assert.NotNil(t, out.EmploymentTypes)
	assert.Empty(t, out.EmploymentTypes)
}

func TestHandler_Execute_LenderForbidden(t *testing.T) {
	h, _ := newHandler(t)

	_, err := h.Execute(context.Background(), &Input{Actor: &models.CurrentUser{ID: 101, Kind: models.KindLender, LenderID: 1}})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeForbidden))
}
