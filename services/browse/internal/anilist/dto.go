package anilist

// MediaDTO mirrors the animeFields fragment plus the details-only extras.
// Every nullable field on the AniList schema is a pointer.
type MediaDTO struct {
	ID                int                          `json:"id"`
	Title             *TitleDTO                    `json:"title"`
	CoverImage        *CoverDTO                    `json:"coverImage"`
	AverageScore      *int                         `json:"averageScore"`
	Description       *string                      `json:"description"`
	Season            *string                      `json:"season"`
	SeasonYear        *int                         `json:"seasonYear"`
	BannerImage       *string                      `json:"bannerImage"`
	Status            *string                      `json:"status"`
	NextAiringEpisode *AiringDTO                   `json:"nextAiringEpisode"`
	Recommendations   *RecommendationConnectionDTO `json:"recommendations"`
}

type TitleDTO struct {
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

type CoverDTO struct {
	ExtraLarge *string `json:"extraLarge"`
	Large      *string `json:"large"`
}

type AiringDTO struct {
	AiringAt int64 `json:"airingAt"`
	Episode  int   `json:"episode"`
}

type AiringScheduleDTO struct {
	ID       int       `json:"id"`
	Episode  int       `json:"episode"`
	AiringAt int64     `json:"airingAt"`
	Media    *MediaDTO `json:"media"`
}

type RecommendationConnectionDTO struct {
	Nodes []*RecommendationDTO `json:"nodes"`
}

type RecommendationDTO struct {
	MediaRecommendation *MediaDTO `json:"mediaRecommendation"`
}

// PageData is the data block of the Page-rooted queries.
type PageData struct {
	Page *struct {
		Media           []*MediaDTO          `json:"media"`
		AiringSchedules []*AiringScheduleDTO `json:"airingSchedules"`
	} `json:"Page"`
}

// MediaData is the data block of the Media-rooted queries.
type MediaData struct {
	Media *MediaDTO `json:"Media"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
