package fakevideorepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/jrsteele09/go-video-client/videos"
)

var (
	_ videos.VideoRepo = (*FakeVideoRepo)(nil)
	_ videos.WatchRepo = (*FakeWatchRepo)(nil)
)

type FakeVideoRepo struct {
	videos map[string]*videos.Video
	lock   sync.RWMutex
}

func NewFakeVideoRepo() *FakeVideoRepo {
	return &FakeVideoRepo{videos: make(map[string]*videos.Video)}
}

func (vr *FakeVideoRepo) Upsert(video *videos.Video) error {
	vr.lock.Lock()
	defer vr.lock.Unlock()

	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	vr.videos[video.ID] = video
	return nil
}

func (vr *FakeVideoRepo) Get(id string) (*videos.Video, error) {
	vr.lock.RLock()
	defer vr.lock.RUnlock()

	video, ok := vr.videos[id]
	if !ok || !video.Active {
		return nil, apperrors.ErrNotFound
	}
	return video, nil
}

func (vr *FakeVideoRepo) ListActive(limit int) ([]*videos.Video, error) {
	vr.lock.RLock()
	defer vr.lock.RUnlock()

	list := make([]*videos.Video, 0, len(vr.videos))
	for _, v := range vr.videos {
		if v.Active {
			list = append(list, v)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type FakeWatchRepo struct {
	events []videos.WatchEvent
	lock   sync.RWMutex
}

func NewFakeWatchRepo() *FakeWatchRepo {
	return &FakeWatchRepo{}
}

func (wr *FakeWatchRepo) Record(event videos.WatchEvent) error {
	wr.lock.Lock()
	defer wr.lock.Unlock()
	wr.events = append(wr.events, event)
	return nil
}

func (wr *FakeWatchRepo) ListForVideo(videoID string) ([]videos.WatchEvent, error) {
	wr.lock.RLock()
	defer wr.lock.RUnlock()

	var out []videos.WatchEvent
	for _, e := range wr.events {
		if e.VideoID == videoID {
			out = append(out, e)
		}
	}
	return out, nil
}
