package backend

import (
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/jrsteele09/go-video-client/token"
	refreshrepofake "github.com/jrsteele09/go-video-client/token/refresh/repofake"
	fakeuserrepo "github.com/jrsteele09/go-video-client/users/repofake"
	"github.com/jrsteele09/go-video-client/videos"
	fakevideorepo "github.com/jrsteele09/go-video-client/videos/repofake"
)

// NewInMemoryRepos wires the in-memory repositories, optionally seeded
// with the demo catalog.
func NewInMemoryRepos(seed bool) (Repos, error) {
	repos := Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		Videos:        fakevideorepo.NewFakeVideoRepo(),
		Watches:       fakevideorepo.NewFakeWatchRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
		Revoked:       token.NewInMemoryRevokedTokenCache(),
	}
	if seed {
		if err := videos.Seed(repos.Videos); err != nil {
			return Repos{}, apperrors.Wrapf(err, "seed catalog")
		}
	}
	return repos, nil
}
