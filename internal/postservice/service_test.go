package postservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/testutil"
)

// fakeStore records image operations and can be told to fail them.
type fakeStore struct {
	files      map[string][]byte
	deletes    []string
	failStore  bool
	failDelete bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (f *fakeStore) Store(data []byte, name string) (string, string, error) {
	if f.failStore {
		return "", "", errors.Join(apperr.ErrStorage, errors.New("upload refused"))
	}
	f.files[name] = data
	return name, "key-" + name, nil
}

func (f *fakeStore) Replace(oldRef, oldKey string, data []byte, name string) (string, string, error) {
	if oldRef != "" {
		_ = f.Delete(oldRef, oldKey)
	}
	return f.Store(data, name)
}

func (f *fakeStore) Delete(ref, _ string) error {
	f.deletes = append(f.deletes, ref)
	if f.failDelete {
		return errors.New("backend offline")
	}
	delete(f.files, ref)
	return nil
}

func testService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewService(testutil.TestDB(t), store), store
}

func validForm(subject string) PostForm {
	return PostForm{
		SubjectName: subject,
		AuthorName:  "Bob",
		Password:    "pw1",
	}
}

func TestPostLifecycleScenario(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	// Create.
	created, err := svc.Create(ctx, PostForm{SubjectName: "Ava", AuthorName: "Bob", Password: "pw1"}, nil)
	require.NoError(t, err)

	pg, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pg.Posts, 1)
	assert.Equal(t, "Ava", pg.Posts[0].SubjectName)
	assert.Equal(t, "Bob", pg.Posts[0].AuthorName)
	assert.Empty(t, pg.Posts[0].ImageRef)

	// Edit with the wrong password: untouched.
	wrong := validForm("Ava2")
	wrong.Password = "pw2"
	_, err = svc.Update(ctx, created.ID, wrong, nil)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	pg, _ = svc.List(ctx, 1)
	assert.Equal(t, "Ava", pg.Posts[0].SubjectName)

	// Edit with the correct password.
	_, err = svc.Update(ctx, created.ID, validForm("Ava2"), nil)
	require.NoError(t, err)
	pg, _ = svc.List(ctx, 1)
	assert.Equal(t, "Ava2", pg.Posts[0].SubjectName)

	// Delete with the wrong password: row remains.
	require.ErrorIs(t, svc.Delete(ctx, created.ID, "pw2"), apperr.ErrUnauthorized)
	pg, _ = svc.List(ctx, 1)
	assert.Len(t, pg.Posts, 1)

	// Delete with the correct password.
	require.NoError(t, svc.Delete(ctx, created.ID, "pw1"))
	pg, _ = svc.List(ctx, 1)
	assert.Empty(t, pg.Posts)
	assert.Equal(t, 0, pg.Total)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	cases := map[string]PostForm{
		"empty subject":  {AuthorName: "Bob", Password: "pw"},
		"empty author":   {SubjectName: "Ava", Password: "pw"},
		"empty password": {SubjectName: "Ava", AuthorName: "Bob"},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, form, nil)
			require.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	// No writes happened.
	pg, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, pg.Total)
}

func TestCreateLengthCaps(t *testing.T) {
	svc, _ := testService(t)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	form := validForm(string(long))
	_, err := svc.Create(context.Background(), form, nil)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateWithImage(t *testing.T) {
	svc, store := testService(t)

	created, err := svc.Create(context.Background(), validForm("Ava"),
		&Upload{Name: "cat.png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "cat.png", created.ImageRef)
	assert.Equal(t, "key-cat.png", created.ImageKey)
	assert.Contains(t, store.files, "cat.png")
}

func TestCreateStorageFailureAborts(t *testing.T) {
	svc, store := testService(t)
	store.failStore = true

	_, err := svc.Create(context.Background(), validForm("Ava"),
		&Upload{Name: "cat.png", Data: []byte("png")})
	require.ErrorIs(t, err, apperr.ErrStorage)

	// Nothing persisted.
	pg, _ := svc.List(context.Background(), 1)
	assert.Equal(t, 0, pg.Total)
}

func TestUpdateKeepsPasswordDigest(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm("Ava"), nil)
	require.NoError(t, err)
	before, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, validForm("Ava2"), nil)
	require.NoError(t, err)

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordDigest, after.PasswordDigest)
	assert.Equal(t, "Ava2", after.SubjectName)

	// The original password still works afterwards.
	require.NoError(t, svc.Delete(ctx, created.ID, "pw1"))
}

func TestUpdateReplacesImage(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm("Ava"), &Upload{Name: "old.png", Data: []byte("old")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, validForm("Ava"), &Upload{Name: "new.png", Data: []byte("new")})
	require.NoError(t, err)
	assert.Equal(t, "new.png", updated.ImageRef)
	assert.Equal(t, "key-new.png", updated.ImageKey)
	assert.Contains(t, store.deletes, "old.png")
	assert.NotContains(t, store.files, "old.png")
}

func TestUpdateWithoutImageKeepsExisting(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm("Ava"), &Upload{Name: "keep.png", Data: []byte("img")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, validForm("Ava2"), nil)
	require.NoError(t, err)
	assert.Equal(t, "keep.png", updated.ImageRef)
	assert.Equal(t, "key-keep.png", updated.ImageKey)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Update(context.Background(), 404, validForm("x"), nil)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteReleasesImage(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm("Ava"), &Upload{Name: "cat.png", Data: []byte("png")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, "pw1"))
	assert.NotContains(t, store.files, "cat.png")
}

func TestDeleteSucceedsWhenImageReleaseFails(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm("Ava"), &Upload{Name: "cat.png", Data: []byte("png")})
	require.NoError(t, err)
	store.failDelete = true

	// The row is removed even though the image store call fails.
	require.NoError(t, svc.Delete(ctx, created.ID, "pw1"))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, store.deletes, "cat.png")
}

func TestDeleteNotFound(t *testing.T) {
	svc, _ := testService(t)
	require.ErrorIs(t, svc.Delete(context.Background(), 404, "pw"), apperr.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := svc.Create(ctx, validForm("p"), nil)
		require.NoError(t, err)
	}

	pg, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, pg.Posts, PageSize)
	assert.Equal(t, 23, pg.Total)
	assert.Equal(t, 3, pg.MaxPage)

	last, err := svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, last.Posts, 3)

	empty, err := svc.List(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
}

func TestListEmptyBoard(t *testing.T) {
	svc, _ := testService(t)
	pg, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, pg.Posts)
	assert.Equal(t, 1, pg.MaxPage)
}
