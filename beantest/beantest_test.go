package beantest_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/bobbin"
	"github.com/danpasecinic/bobbin/beantest"
)

type Config struct {
	Port int
	Host string
}

type Database struct {
	Config *Config
	closed *bool
}

func NewDatabase(cfg *Config) *Database {
	return &Database{Config: cfg}
}

func (d *Database) Dispose(context.Context) error {
	if d.closed != nil {
		*d.closed = true
	}
	return nil
}

type UserRepository interface {
	FindByID(id int) string
}

type MockUserRepository struct {
	FindByIDFn func(id int) string
}

func (m *MockUserRepository) FindByID(id int) string {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(id)
	}
	return ""
}

type UserService struct {
	Repo UserRepository `inject:""`
}

// fakeTB records fatal calls instead of stopping the test.
type fakeTB struct {
	fatals   []string
	cleanups []func()
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Fatal(args ...any) {
	f.fatals = append(f.fatals, fmt.Sprint(args...))
}

func (f *fakeTB) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
}

func (f *fakeTB) Cleanup(fn func()) {
	f.cleanups = append(f.cleanups, fn)
}

func (f *fakeTB) runCleanups() {
	for i := len(f.cleanups) - 1; i >= 0; i-- {
		f.cleanups[i]()
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tc := beantest.New(t)
	require.NotNil(t, tc)
	assert.Equal(t, bobbin.StateNew, tc.State())
}

func TestNew_ClosesOnCleanup(t *testing.T) {
	t.Parallel()

	closed := false
	tb := &fakeTB{}

	tc := beantest.New(tb)
	beantest.Instance(tc, &Config{Port: 8080})
	tc.MustRegister(bobbin.MustDefine[*Database](bobbin.WithConstructor(func(cfg *Config) *Database {
		return &Database{Config: cfg, closed: &closed}
	})))
	tc.RequireStart(context.Background())
	assert.False(t, closed)

	tb.runCleanups()
	assert.True(t, closed)
	assert.Empty(t, tb.fatals)
}

func TestInstance_StandsInForDependency(t *testing.T) {
	t.Parallel()

	tc := beantest.New(t)
	beantest.Instance(tc, &Config{Port: 9090, Host: "testhost"})
	tc.MustRegister(bobbin.MustDefine[*Database](bobbin.WithConstructor(NewDatabase)))
	tc.RequireValidate()

	db := beantest.MustResolve[*Database](tc)
	assert.Equal(t, 9090, db.Config.Port)
	assert.Equal(t, "testhost", db.Config.Host)
}

func TestInstance_MockInterface(t *testing.T) {
	t.Parallel()

	tc := beantest.New(t)
	beantest.Instance(tc, &MockUserRepository{
		FindByIDFn: func(id int) string { return fmt.Sprintf("user-%d", id) },
	})
	beantest.Bind[UserRepository, *MockUserRepository](tc)

	svc := beantest.MustResolve[*UserService](tc)
	assert.Equal(t, "user-42", svc.Repo.FindByID(42))
}

func TestAssertions(t *testing.T) {
	t.Parallel()

	tc := beantest.New(t)
	beantest.NamedInstance(tc, "primary", &Config{Port: 1})

	beantest.AssertHas[*Config](tc)
	beantest.AssertNotHas[*Database](tc)
	assert.Equal(t, 1, beantest.MustGetNamed[*Config](tc, "primary").Port)
	assert.Equal(t, 1, beantest.MustGet[*Config](tc).Port)

	db := beantest.MustCreate(tc, bobbin.MustDefine[*Database](bobbin.WithConstructor(NewDatabase)))
	assert.IsType(t, &Database{}, db)
	beantest.AssertHas[*Database](tc)
}

func TestFailuresReachTB(t *testing.T) {
	t.Parallel()

	tb := &fakeTB{}
	tc := beantest.New(tb)

	beantest.AssertHas[*Config](tc)
	beantest.MustGet[*Config](tc)
	beantest.MustResolve[UserRepository](tc)
	beantest.Instance(tc, &Config{})
	beantest.Instance(tc, &Config{})
	tc.MustRegister(bobbin.MustDefine[*Database](
		bobbin.WithConstructor(NewDatabase),
		bobbin.WithConstructor(NewDatabase),
	))
	tc.RequireValidate()
	tc.RequireStart(context.Background())

	assert.Len(t, tb.fatals, 6)
	assert.Contains(t, tb.fatals[0], "expected container to have")
	assert.Contains(t, tb.fatals[2], "failed to resolve")
	assert.Contains(t, tb.fatals[3], "failed to register instance")
	assert.Contains(t, tb.fatals[4], "container validation failed")
	assert.Contains(t, tb.fatals[5], "failed to start container")
}
