package anilist

const animeFields = `
fragment animeFields on Media {
  id
  title { romaji english native }
  coverImage { extraLarge large }
  averageScore
  description
  season
  seasonYear
}`

const trendingQuery = `
query Trending($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(sort: TRENDING_DESC, type: ANIME) { ...animeFields }
  }
}` + animeFields

const seasonalQuery = `
query Seasonal($season: MediaSeason, $year: Int, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(season: $season, seasonYear: $year, type: ANIME, sort: POPULARITY_DESC) { ...animeFields }
  }
}` + animeFields

const detailsQuery = `
query Details($id: Int) {
  Media(id: $id, type: ANIME) {
    ...animeFields
    bannerImage
    status
    nextAiringEpisode { airingAt episode }
  }
}` + animeFields

// AniList compares airingAt strictly, the bounds are widened by the caller.
const airingScheduleQuery = `
query AiringSchedule($start: Int, $end: Int, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    airingSchedules(airingAt_greater: $start, airingAt_lesser: $end, sort: TIME) {
      id
      episode
      airingAt
      media { ...animeFields }
    }
  }
}` + animeFields

const recommendationsQuery = `
query Recommendations($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    recommendations(sort: RATING_DESC) {
      nodes {
        mediaRecommendation { ...animeFields }
      }
    }
  }
}` + animeFields
