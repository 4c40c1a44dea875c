package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureFilename(t *testing.T) {
	cases := map[string]string{
		"My Kitchen.jpg":         "My_Kitchen.jpg",
		"../../etc/passwd":       "etc_passwd",
		`C:\Users\jane\plan.pdf`: "C_Users_jane_plan.pdf",
		"café menu.png":          "cafe_menu.png",
		"  .hidden  ":            "hidden",
		"quote (final)!.pdf":     "quote_final.pdf",
		"":                       "",
		"...":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SecureFilename(in), "input %q", in)
	}
}

func TestUniqueAndPrefixedNames(t *testing.T) {
	name := UniqueName("front door.JPG")
	assert.Regexp(t, `^[0-9a-f]{8}_front_door\.JPG$`, name)
	assert.NotEqual(t, name, UniqueName("front door.JPG"))
	assert.Regexp(t, `^[0-9a-f]{8}$`, UniqueName("///"))

	assert.Equal(t, "EST-1A2B3C4D_quote.pdf", PrefixedName("EST-1A2B3C4D", "quote.pdf"))
	assert.True(t, IsImage("a.PNG"))
	assert.False(t, IsImage("a.pdf"))
}

func TestLongNamesAreClipped(t *testing.T) {
	long := strings.Repeat("a", 300) + ".pdf"

	clean := SecureFilename(long)
	assert.Len(t, clean, MaxNameLength)
	assert.True(t, strings.HasSuffix(clean, ".pdf"))

	name := PrefixedName("EST-1A2B3C4D", UniqueName(long))
	assert.Regexp(t, `^EST-1A2B3C4D_[0-9a-f]{8}_a+\.pdf$`, name)
	assert.LessOrEqual(t, len(name), 255)
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), FilesPrefix)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, FolderEstimates, "EST-1_quote.pdf", "application/pdf", strings.NewReader("%PDF")))

	rc, err := store.Open(ctx, FolderEstimates, "EST-1_quote.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF", string(data))
	assert.Equal(t, "/files/estimates/EST-1_quote.pdf", store.URL(FolderEstimates, "EST-1_quote.pdf"))

	require.NoError(t, store.Delete(ctx, FolderEstimates, "EST-1_quote.pdf"))
	_, err = store.Open(ctx, FolderEstimates, "EST-1_quote.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.NoError(t, store.Delete(ctx, FolderEstimates, "EST-1_quote.pdf"))

	assert.ErrorIs(t, store.Save(ctx, "secrets", "a.txt", "", strings.NewReader("x")), ErrInvalidFolder)
	assert.ErrorIs(t, store.Save(ctx, FolderImages, "../a.txt", "", strings.NewReader("x")), ErrInvalidName)
}

type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{ETag: aws.String(`"etag"`)}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := newFakeObjects()
	store := NewS3Store(fake, "portal", "https://cdn.example.com/%s")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, FolderImages, "ab12cd34_front.jpg", "image/jpeg", strings.NewReader("jpeg")))
	assert.Equal(t, []byte("jpeg"), fake.objects["uploads/ab12cd34_front.jpg"])
	assert.Equal(t, "image/jpeg", fake.types["uploads/ab12cd34_front.jpg"])
	assert.Equal(t, "https://cdn.example.com/uploads/ab12cd34_front.jpg", store.URL(FolderImages, "ab12cd34_front.jpg"))

	rc, err := store.Open(ctx, FolderImages, "ab12cd34_front.jpg")
	require.NoError(t, err)
	rc.Close()

	require.NoError(t, store.Delete(ctx, FolderImages, "ab12cd34_front.jpg"))
	_, err = store.Open(ctx, FolderImages, "ab12cd34_front.jpg")
	assert.ErrorIs(t, err, ErrFileNotFound)

	plain := NewS3Store(fake, "portal", "https://files.example.com/")
	assert.Equal(t, "https://files.example.com/estimates/EST-1_q.pdf", plain.URL(FolderEstimates, "EST-1_q.pdf"))
	assert.Equal(t, "/files/estimates/EST-1_q.pdf", NewS3Store(fake, "portal", "").URL(FolderEstimates, "EST-1_q.pdf"))
}
