package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/josephlewis42/liteshell/core/vos"
	"github.com/stretchr/testify/assert"
)

func ExampleAugmentPath() {
	env := vos.NewMapEnv()
	env.Setenv("PATH", "/usr/bin:/bin")

	path, err := AugmentPath(env, "PATH", " ", []string{"/opt/tools"})
	fmt.Printf("%q %v\n", path, err)
	fmt.Printf("%q\n", env.Getenv("PATH"))

	// Output: "/usr/bin:/bin /opt/tools" <nil>
	// "/usr/bin:/bin /opt/tools"
}

type failingEnv struct {
	*vos.MapEnv
}

func (failingEnv) Setenv(key, value string) error {
	return errors.New("read-only environment")
}

func TestAugmentPath(t *testing.T) {
	cases := map[string]struct {
		environ []string
		sep     string
		dirs    []string

		want    string
		wantErr error
	}{
		"no-dirs": {
			environ: []string{"PATH=/bin"},
			sep:     " ",
			want:    "/bin",
		},
		"one-dir": {
			environ: []string{"PATH=/bin"},
			sep:     " ",
			dirs:    []string{"/opt/tools"},
			want:    "/bin /opt/tools",
		},
		"order-kept": {
			environ: []string{"PATH=/bin"},
			sep:     ":",
			dirs:    []string{"/b", "/a", "/c"},
			want:    "/bin:/b:/a:/c",
		},
		"empty-base": {
			environ: []string{"PATH="},
			sep:     " ",
			dirs:    []string{"/opt/tools"},
			want:    " /opt/tools",
		},
		"missing-base": {
			sep:     " ",
			dirs:    []string{"/opt/tools"},
			want:    " /opt/tools",
			wantErr: ErrMissingPath,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			env := vos.NewMapEnvFromEnvList(tc.environ)

			got, err := AugmentPath(env, "PATH", tc.sep, tc.dirs)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.Nil(t, err)
			}

			assert.Equal(t, tc.want, got)
			val, ok := env.LookupEnv("PATH")
			assert.True(t, ok)
			assert.Equal(t, tc.want, val)
		})
	}
}

func TestAugmentPath_setFails(t *testing.T) {
	env := failingEnv{vos.NewMapEnvFromEnvList([]string{"PATH=/bin"})}

	got, err := AugmentPath(env, "PATH", " ", []string{"/opt/tools"})
	assert.EqualError(t, err, "setting PATH: read-only environment")
	assert.Equal(t, "/bin", got)
	assert.Equal(t, "/bin", env.Getenv("PATH"))
}
