package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"wdx/internal"
	"wdx/internal/catalog"
	"wdx/internal/explorer"
	"wdx/internal/util"
)

// Server hosts the normalized layout: the raw files under /data (the
// static host the Explorer fetches from), a JSON API over the catalog,
// and a server-rendered comparison dashboard at /.
type Server struct {
	cat     *catalog.Catalog
	dataDir string
}

func New(cat *catalog.Catalog, dataDir string) *Server {
	return &Server{cat: cat, dataDir: dataDir}
}

func (s *Server) Start(port int) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.Static("/data", s.dataDir)

	api := e.Group("/api")
	api.GET("/countries", s.getCountries)
	api.GET("/series", s.getSeries)
	api.GET("/stats", s.getStats)
	api.GET("/lookup", s.getLookup)
	api.GET("/data", s.getData)

	e.GET("/", s.getDashboard)

	return e.Start(fmt.Sprintf(":%d", port))
}

func (s *Server) getCountries(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cat.SearchCountries(c.QueryParam("q")))
}

func (s *Server) getSeries(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cat.SearchSeries(c.QueryParam("q")))
}

func (s *Server) getStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cat.Stats())
}

func (s *Server) getLookup(c echo.Context) error {
	if code := c.QueryParam("country"); code != "" {
		if _, ok := s.cat.Country(code); !ok {
			return echo.NewHTTPError(http.StatusNotFound, "unknown country: "+code)
		}
		refs, err := s.cat.SeriesForCountry(code)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, refs)
	}
	if code := c.QueryParam("series"); code != "" {
		if _, ok := s.cat.Series(code); !ok {
			return echo.NewHTTPError(http.StatusNotFound, "unknown series: "+code)
		}
		refs, err := s.cat.CountriesForSeries(code)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, refs)
	}
	return echo.NewHTTPError(http.StatusBadRequest, "country or series query parameter required")
}

func (s *Server) getData(c echo.Context) error {
	seriesCode := c.QueryParam("series")
	countries := splitCodes(c.QueryParam("countries"))
	if seriesCode == "" || len(countries) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "series and countries query parameters required")
	}
	return c.JSON(http.StatusOK, s.loadResults(countries, seriesCode))
}

// loadResults reads per-entity files straight from the data directory,
// with the same partial-success policy as the remote fetch layer: a
// missing file yields an empty slot, never a failed batch.
func (s *Server) loadResults(countryCodes []string, seriesCode string) []explorer.CountrySeries {
	out := make([]explorer.CountrySeries, 0, len(countryCodes))
	for _, code := range countryCodes {
		cs := explorer.CountrySeries{CountryCode: code, Points: []internal.Point{}}
		body, err := os.ReadFile(filepath.Join(s.dataDir, util.PairFileName(code, seriesCode)))
		if err == nil {
			if parsed, perr := explorer.ParsePoints(body); perr == nil {
				cs.Points = parsed
			}
		}
		out = append(out, cs)
	}
	return out
}

func splitCodes(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

type dashboardView struct {
	Stats      catalog.Stats
	Countries  []string
	SeriesCode string
	SeriesName string
	View       string
	Years      []int
	Year       int
	Table      explorer.WideTable
	AllSeries  []seriesOption
	Error      string
}

type seriesOption struct {
	Code string
	Name string
}

func (s *Server) getDashboard(c echo.Context) error {
	view := dashboardView{
		Stats: s.cat.Stats(),
		View:  c.QueryParam("view"),
	}
	if view.View != "country" {
		view.View = "year"
	}

	for _, series := range s.cat.SearchSeries("") {
		view.AllSeries = append(view.AllSeries, seriesOption{Code: series.Code, Name: series.Name})
	}

	view.SeriesCode = c.QueryParam("series")
	view.Countries = splitCodes(c.QueryParam("countries"))
	if year, err := strconv.Atoi(c.QueryParam("year")); err == nil {
		view.Year = year
	}

	if view.SeriesCode != "" && len(view.Countries) > 0 {
		if series, ok := s.cat.Series(view.SeriesCode); ok {
			view.SeriesName = series.Name
			results := s.loadResults(view.Countries, view.SeriesCode)
			view.Years = explorer.DistinctYears(results)
			switch {
			case view.Year != 0:
				view.Table = yearComparison(results, view.Year)
			case view.View == "country":
				view.Table = explorer.WideByCountry(results)
			default:
				view.Table = explorer.WideByYear(results)
			}
		} else {
			view.Error = "unknown series: " + view.SeriesCode
		}
	}

	return dashboardTmpl.Execute(c.Response(), view)
}

// yearComparison is the single-year projection behind the bar-chart
// view: one row per country with its value at the chosen year.
func yearComparison(results []explorer.CountrySeries, year int) explorer.WideTable {
	table := explorer.WideTable{Columns: []string{"Country", strconv.Itoa(year)}}
	for _, row := range explorer.LongRows(results) {
		if row.Year != year {
			continue
		}
		value := ""
		if row.Value != nil {
			value = strconv.FormatFloat(*row.Value, 'f', -1, 64)
		}
		table.Rows = append(table.Rows, []string{row.CountryCode, value})
	}
	return table
}
