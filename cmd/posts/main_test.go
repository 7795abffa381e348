package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/assertions"
	"go.uber.org/zap"
)

func testPosts(t *testing.T) *Posts {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	for i, name := range []string{"older.md", "new post.md"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("# "+name), 0o644); err != nil {
			t.Fatal(err)
		}
		mtime := time.Date(2023, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	return &Posts{SiteRoot: root, SiteURL: "https://jamoo.dev/", log: zap.NewNop()}
}

func TestRun(t *testing.T) {
	a := assertions.New(t)
	out := &bytes.Buffer{}

	a.So(testPosts(t).run(out), assertions.ShouldBeNil)
	a.So(out.String(), assertions.ShouldEqual,
		"2023-02-01T00:00:00Z  https://jamoo.dev/posts/new%20post.md  new post\n"+
			"2023-01-01T00:00:00Z  https://jamoo.dev/posts/older.md       older\n")
}

func TestRunLimitAndAfter(t *testing.T) {
	a := assertions.New(t)

	p := testPosts(t)
	p.Limit = 1
	out := &bytes.Buffer{}
	a.So(p.run(out), assertions.ShouldBeNil)
	a.So(out.String(), assertions.ShouldContainSubstring, "new%20post.md")
	a.So(out.String(), assertions.ShouldNotContainSubstring, "older.md")

	p = testPosts(t)
	p.After = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	out = &bytes.Buffer{}
	a.So(p.run(out), assertions.ShouldBeNil)
	a.So(out.String(), assertions.ShouldEqual, "")
}

func TestRunResolve(t *testing.T) {
	a := assertions.New(t)

	p := testPosts(t)
	p.Resolve = "new%20post.md"
	out := &bytes.Buffer{}
	a.So(p.run(out), assertions.ShouldBeNil)
	a.So(out.String(), assertions.ShouldEqual, filepath.Join(p.SiteRoot, "posts", "new post.md")+"\n")

	p.Resolve = "%2E%2E%2Fsecret"
	a.So(p.run(&bytes.Buffer{}), assertions.ShouldNotBeNil)
}
