package bobbin_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/bobbin"
)

// UserDAO gets the shared database handle injected and owns closing it.
type UserDAO struct {
	db *sql.DB `inject:""`
}

func (d *UserDAO) FindName(ctx context.Context, id int) (string, error) {
	var name string
	err := d.db.QueryRowContext(ctx, "SELECT name FROM users WHERE id = ?", id).Scan(&name)
	return name, err
}

func (d *UserDAO) Dispose(context.Context) error {
	return d.db.Close()
}

type UserService struct {
	dao *UserDAO
}

func NewUserService(dao *UserDAO) *UserService {
	return &UserService{dao: dao}
}

func (s *UserService) Greeting(ctx context.Context, id int) (string, error) {
	name, err := s.dao.FindName(ctx, id)
	if err != nil {
		return "", err
	}
	return "hello " + name, nil
}

func TestDAO_SharedDatabaseInstance(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectQuery("SELECT name FROM users WHERE id = \\?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("ada"))
	mock.ExpectClose()

	c := bobbin.New()
	require.NoError(t, c.RegisterInstance("", db))
	require.NoError(t, c.Register(bobbin.MustDefine[*UserService](bobbin.WithConstructor(NewUserService))))
	assert.Equal(t, []string{"DB", "UserService"}, c.Names())

	ctx := context.Background()
	require.NoError(t, c.Validate())
	require.NoError(t, c.Start(ctx))

	svc := bobbin.MustGet[*UserService](c)
	greeting, err := svc.Greeting(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "hello ada", greeting)

	dao := bobbin.MustGet[*UserDAO](c)
	assert.Same(t, db, dao.db)

	require.NoError(t, c.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDAO_CloseFailure(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose().WillReturnError(errBoom)

	c := bobbin.New()
	require.NoError(t, c.RegisterInstance("", db))

	_, err = bobbin.Resolve[*UserDAO](context.Background(), c)
	require.NoError(t, err)

	err = c.Close(context.Background())
	require.Error(t, err)
	assert.True(t, bobbin.IsShutdownFailed(err))
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
