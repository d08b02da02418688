package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"futureflix/models"
)

// Seed imports the sample movies and TV shows from the JSON files in
// dir (movies.json and shows.json; shows embed their seasons, seasons
// embed their episodes). Existing slugs are skipped, so the import can
// be re-run safely.
func Seed(dbConn *sqlx.DB, dir string) error {
	var movies []models.Movie
	if err := readJSON(filepath.Join(dir, "movies.json"), &movies); err != nil {
		return err
	}

	var shows []models.Show
	if err := readJSON(filepath.Join(dir, "shows.json"), &shows); err != nil {
		return err
	}

	for _, movie := range movies {
		if err := insertMovie(dbConn, movie); err != nil {
			return err
		}
	}

	for _, show := range shows {
		if err := insertShow(dbConn, show); err != nil {
			return err
		}
	}

	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

func insertMovie(dbConn *sqlx.DB, movie models.Movie) error {
	_, err := dbConn.Exec(
		`INSERT INTO movies (slug, trakt, imdb, tmdb, title, year, overview, trailer,
			homepage, rating, votes, runtime, language, certification, genres, poster, background)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slug) DO NOTHING`,
		movie.IDs.Slug, movie.IDs.Trakt, movie.IDs.IMDB, movie.IDs.TMDB, movie.Title,
		movie.Year, movie.Overview, movie.Trailer, movie.Homepage, movie.Rating,
		movie.Votes, movie.Runtime, movie.Language, movie.Certification, movie.Genres,
		movie.Images.Poster, movie.Images.Background)
	if err != nil {
		return fmt.Errorf("insert movie %q: %w", movie.IDs.Slug, err)
	}

	return nil
}

func insertShow(dbConn *sqlx.DB, show models.Show) error {
	_, err := dbConn.Exec(
		`INSERT INTO shows (slug, trakt, imdb, tmdb, tvdb, title, year, overview,
			first_aired, airs_day, airs_time, airs_timezone, runtime, certification,
			network, country, trailer, homepage, status, rating, votes, language,
			genres, aired_episodes, poster, background)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slug) DO NOTHING`,
		show.IDs.Slug, show.IDs.Trakt, show.IDs.IMDB, show.IDs.TMDB, show.IDs.TVDB,
		show.Title, show.Year, show.Overview, show.FirstAired, show.Airs.Day,
		show.Airs.Time, show.Airs.Timezone, show.Runtime, show.Certification,
		show.Network, show.Country, show.Trailer, show.Homepage, show.Status,
		show.Rating, show.Votes, show.Language, show.Genres, show.AiredEpisodes,
		show.Images.Poster, show.Images.Background)
	if err != nil {
		return fmt.Errorf("insert show %q: %w", show.IDs.Slug, err)
	}

	var showID int64
	if err := dbConn.Get(&showID, `SELECT id FROM shows WHERE slug = ?`, show.IDs.Slug); err != nil {
		return fmt.Errorf("resolve show %q: %w", show.IDs.Slug, err)
	}

	for _, season := range show.Seasons {
		if err := insertSeason(dbConn, showID, season); err != nil {
			return fmt.Errorf("show %q: %w", show.IDs.Slug, err)
		}
	}

	return nil
}

func insertSeason(dbConn *sqlx.DB, showID int64, season models.Season) error {
	result, err := dbConn.Exec(
		`INSERT INTO seasons (show_id, number, title, overview, first_aired, rating,
			votes, episode_count, aired_episodes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		showID, season.Number, season.Title, season.Overview, season.FirstAired,
		season.Rating, season.Votes, season.EpisodeCount, season.AiredEpisodes)
	if err != nil {
		return fmt.Errorf("insert season %d: %w", season.Number, err)
	}

	seasonID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert season %d: %w", season.Number, err)
	}

	for _, episode := range season.Episodes {
		_, err := dbConn.Exec(
			`INSERT INTO episodes (season_id, season, number, number_abs, title,
				overview, rating, votes, first_aired, runtime)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seasonID, season.Number, episode.Number, episode.NumberAbs, episode.Title,
			episode.Overview, episode.Rating, episode.Votes, episode.FirstAired,
			episode.Runtime)
		if err != nil {
			return fmt.Errorf("insert episode %dx%d: %w", season.Number, episode.Number, err)
		}
	}

	return nil
}
