// Command catalog-mock serves a small TMDB-shaped catalog for local
// development, so the API can run without upstream credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
)

type genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type item struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	GenreIDs     []int64 `json:"genre_ids"`
}

type page struct {
	Page         int    `json:"page"`
	Results      []item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

type detail struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	Genres       []genre `json:"genres"`
}

var movieGenres = []genre{
	{28, "Acción"}, {35, "Comedia"}, {18, "Drama"}, {878, "Ciencia ficción"},
}

var tvGenres = []genre{
	{18, "Drama"}, {35, "Comedia"}, {80, "Crimen"},
}

const pageSize = 20

type catalog struct {
	movies []item
	tv     []item
}

func buildCatalog(size int) *catalog {
	c := &catalog{}
	for i := 1; i <= size; i++ {
		poster := fmt.Sprintf("/poster-%d.jpg", i)
		gid := movieGenres[i%len(movieGenres)].ID
		c.movies = append(c.movies, item{
			ID:          int64(i),
			Title:       fmt.Sprintf("Película %d", i),
			Overview:    "Sinopsis de prueba.",
			VoteAverage: 5 + float64(i%50)/10,
			PosterPath:  &poster,
			ReleaseDate: fmt.Sprintf("20%02d-01-01", i%25),
			GenreIDs:    []int64{gid},
		})
		tgid := tvGenres[i%len(tvGenres)].ID
		c.tv = append(c.tv, item{
			ID:           int64(10000 + i),
			Name:         fmt.Sprintf("Serie %d", i),
			Overview:     "Sinopsis de prueba.",
			VoteAverage:  5 + float64(i%40)/10,
			PosterPath:   &poster,
			FirstAirDate: fmt.Sprintf("20%02d-09-01", i%25),
			GenreIDs:     []int64{tgid},
		})
	}
	return c
}

func (c *catalog) items(kind string) []item {
	if kind == "tv" {
		return c.tv
	}
	return c.movies
}

func (c *catalog) genres(kind string) []genre {
	if kind == "tv" {
		return tvGenres
	}
	return movieGenres
}

func paginate(results []item, pageNum int) page {
	total := len(results)
	totalPages := (total + pageSize - 1) / pageSize
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return page{
		Page:         pageNum,
		Results:      results[start:end],
		TotalPages:   totalPages,
		TotalResults: total,
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return n
}

func main() {
	var (
		port = flag.String("port", "9099", "port to listen on")
		size = flag.Int("size", 120, "items per kind in the generated catalog")
	)
	flag.Parse()

	data := buildCatalog(*size)
	mux := http.NewServeMux()

	for _, kind := range []string{"movie", "tv"} {
		kind := kind

		mux.HandleFunc("/"+kind+"/popular", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, paginate(data.items(kind), pageParam(r)))
		})

		mux.HandleFunc("/search/"+kind, func(w http.ResponseWriter, r *http.Request) {
			query := strings.ToLower(r.URL.Query().Get("query"))
			var matched []item
			for _, it := range data.items(kind) {
				if strings.Contains(strings.ToLower(it.Title+it.Name), query) {
					matched = append(matched, it)
				}
			}
			writeJSON(w, paginate(matched, pageParam(r)))
		})

		mux.HandleFunc("/discover/"+kind, func(w http.ResponseWriter, r *http.Request) {
			genreID, _ := strconv.ParseInt(r.URL.Query().Get("with_genres"), 10, 64)
			var matched []item
			for _, it := range data.items(kind) {
				for _, id := range it.GenreIDs {
					if id == genreID {
						matched = append(matched, it)
						break
					}
				}
			}
			writeJSON(w, paginate(matched, pageParam(r)))
		})

		mux.HandleFunc("/genre/"+kind+"/list", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string][]genre{"genres": data.genres(kind)})
		})

		mux.HandleFunc("/"+kind+"/", func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.URL.Path, "/"+kind+"/")
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			for _, it := range data.items(kind) {
				if it.ID != id {
					continue
				}
				var names []genre
				for _, gid := range it.GenreIDs {
					for _, g := range data.genres(kind) {
						if g.ID == gid {
							names = append(names, g)
						}
					}
				}
				writeJSON(w, detail{
					ID:           it.ID,
					Title:        it.Title,
					Name:         it.Name,
					Overview:     it.Overview,
					VoteAverage:  it.VoteAverage,
					PosterPath:   it.PosterPath,
					ReleaseDate:  it.ReleaseDate,
					FirstAirDate: it.FirstAirDate,
					Genres:       names,
				})
				return
			}
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		})
	}

	addr := ":" + *port
	log.Printf("mock catalog listening on %s (%d items per kind)", addr, *size)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
