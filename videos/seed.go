package videos

import (
	"fmt"
	"time"
)

// Seed inserts a small demo catalog. Each video's media is a short
// placeholder payload standing in for the real source.
func Seed(repo VideoRepo) error {
	base := time.Now().UTC().Add(-time.Hour)
	catalog := []Video{
		{
			Title:        "How Startups Fail",
			Description:  "Lessons from real founders.",
			ThumbnailURL: "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		},
		{
			Title:        "Scaling Engineering Teams",
			Description:  "Strategies to grow from 5 to 50 engineers.",
			ThumbnailURL: "https://img.youtube.com/vi/L_jWHffIx5E/hqdefault.jpg",
		},
		{
			Title:        "Founder Mindset",
			Description:  "How to think like a founder.",
			ThumbnailURL: "https://img.youtube.com/vi/9bZkp7q19f0/hqdefault.jpg",
		},
	}

	for i := range catalog {
		video := catalog[i]
		video.Active = true
		video.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		video.MediaType = "video/mp4"
		video.Media = []byte(fmt.Sprintf("media:%s", video.Title))
		if err := repo.Upsert(&video); err != nil {
			return fmt.Errorf("failed to seed video %q: %w", video.Title, err)
		}
	}
	return nil
}
