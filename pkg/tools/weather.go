package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/geo"
	"github.com/travelmind/travelmcp/pkg/geocode"
	"github.com/travelmind/travelmcp/pkg/travelapi"
)

// GetWeatherTool returns a tool definition for weather lookups
func GetWeatherTool() mcp.Tool {
	return mcp.NewTool("get_weather",
		mcp.WithDescription("Get the weather for a city. With no dates, returns current conditions; "+
			"with start_date (and optionally end_date), returns a daily forecast for that range."),
		mcp.WithString("city",
			mcp.Required(),
			mcp.Description("The city to get weather for"),
		),
		mcp.WithString("start_date",
			mcp.Description("Forecast start date in YYYY-MM-DD format"),
			mcp.DefaultString(""),
		),
		mcp.WithString("end_date",
			mcp.Description("Forecast end date in YYYY-MM-DD format (requires start_date)"),
			mcp.DefaultString(""),
		),
	)
}

// CurrentWeather describes present conditions at a location.
type CurrentWeather struct {
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	WeatherCode  int     `json:"weather_code"`
}

// DailyForecast describes one forecast day.
type DailyForecast struct {
	Date            string  `json:"date"`
	MaxTemperatureC float64 `json:"max_temperature_c"`
	MinTemperatureC float64 `json:"min_temperature_c"`
	PrecipitationMm float64 `json:"precipitation_mm"`
	WeatherCode     int     `json:"weather_code"`
}

// WeatherOutput defines the output format for weather lookups
type WeatherOutput struct {
	City     string          `json:"city"`
	Location geo.Location    `json:"location"`
	Current  *CurrentWeather `json:"current,omitempty"`
	Forecast []DailyForecast `json:"forecast,omitempty"`
}

// HandleGetWeather implements the weather lookup
func (reg *Registry) HandleGetWeather(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := reg.logger.With("tool", "get_weather")

	city := mcp.ParseString(req, "city", "")
	startDate := mcp.ParseString(req, "start_date", "")
	endDate := mcp.ParseString(req, "end_date", "")

	if city == "" {
		return DetailedErrorResponse("EMPTY_CITY", "City must not be empty"), nil
	}
	for _, d := range []string{startDate, endDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return ErrorWithGuidance(NewAPIError("Open-Meteo", http.StatusBadRequest,
				fmt.Sprintf("Invalid date %q", d), GuidanceWeatherDates)), nil
		}
	}
	if endDate != "" && startDate == "" {
		return ErrorWithGuidance(NewAPIError("Open-Meteo", http.StatusBadRequest,
			"end_date requires start_date", GuidanceWeatherDates)), nil
	}
	// A single date is a one-day range
	if startDate != "" && endDate == "" {
		endDate = startDate
	}

	loc, err := reg.resolver.Lookup(ctx, city)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return DetailedErrorResponse("NO_RESULTS", "Could not find coordinates for "+city), nil
		}
		logger.Error("geocoding failed", "city", city, "error", err)
		return ErrorWithGuidance(NewAPIError("Nominatim", 0, err.Error(), GuidanceNetworkError)), nil
	}

	cacheKey := fmt.Sprintf("weather|%s|%s|%s", loc, startDate, endDate)
	if cached, ok := reg.textCache.Get(cacheKey); ok {
		logger.Debug("cache hit", "city", city)
		return mcp.NewToolResultText(cached), nil
	}

	reqURL, err := url.Parse(travelapi.OpenMeteoBaseURL)
	if err != nil {
		logger.Error("failed to parse URL", "error", err)
		return ErrorResponse("Internal server error"), nil
	}
	q := reqURL.Query()
	q.Add("latitude", fmt.Sprintf("%f", loc.Latitude))
	q.Add("longitude", fmt.Sprintf("%f", loc.Longitude))
	q.Add("timezone", "auto")
	if startDate != "" {
		q.Add("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,weathercode")
		q.Add("start_date", startDate)
		q.Add("end_date", endDate)
	} else {
		q.Add("current_weather", "true")
	}
	reqURL.RawQuery = q.Encode()

	httpReq, err := travelapi.NewRequest(ctx, http.MethodGet, reqURL.String())
	if err != nil {
		logger.Error("failed to create request", "error", err)
		return ErrorResponse("Failed to create request"), nil
	}

	resp, err := travelapi.DoRequest(ctx, httpReq)
	if err != nil {
		logger.Error("failed to execute request", "error", err)
		return ErrorWithGuidance(NewAPIError("Open-Meteo", 0, "Failed to communicate with weather service", GuidanceNetworkError)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("weather service returned error", "status", resp.StatusCode)
		return ErrorWithGuidance(NewAPIError("Open-Meteo", resp.StatusCode, "Weather service error", GuidanceWeatherGeneral)), nil
	}

	var meteoResp struct {
		CurrentWeather *struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
		Daily *struct {
			Time             []string  `json:"time"`
			TemperatureMax   []float64 `json:"temperature_2m_max"`
			TemperatureMin   []float64 `json:"temperature_2m_min"`
			PrecipitationSum []float64 `json:"precipitation_sum"`
			WeatherCode      []int     `json:"weathercode"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meteoResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorWithGuidance(NewAPIError("Open-Meteo", 0, "Failed to parse weather response", GuidanceDataError)), nil
	}

	output := WeatherOutput{City: city, Location: loc}
	switch {
	case startDate != "":
		if meteoResp.Daily == nil || len(meteoResp.Daily.Time) == 0 {
			return DetailedErrorResponse("NO_FORECAST",
				fmt.Sprintf("No forecast available for %s between %s and %s", city, startDate, endDate)), nil
		}
		for i, date := range meteoResp.Daily.Time {
			day := DailyForecast{Date: date}
			if i < len(meteoResp.Daily.TemperatureMax) {
				day.MaxTemperatureC = meteoResp.Daily.TemperatureMax[i]
			}
			if i < len(meteoResp.Daily.TemperatureMin) {
				day.MinTemperatureC = meteoResp.Daily.TemperatureMin[i]
			}
			if i < len(meteoResp.Daily.PrecipitationSum) {
				day.PrecipitationMm = meteoResp.Daily.PrecipitationSum[i]
			}
			if i < len(meteoResp.Daily.WeatherCode) {
				day.WeatherCode = meteoResp.Daily.WeatherCode[i]
			}
			output.Forecast = append(output.Forecast, day)
		}
	default:
		if meteoResp.CurrentWeather == nil {
			return DetailedErrorResponse("NO_FORECAST", "No current weather available for "+city), nil
		}
		output.Current = &CurrentWeather{
			TemperatureC: meteoResp.CurrentWeather.Temperature,
			WindSpeedKmh: meteoResp.CurrentWeather.WindSpeed,
			WeatherCode:  meteoResp.CurrentWeather.WeatherCode,
		}
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	reg.textCache.Set(cacheKey, string(resultBytes))
	return mcp.NewToolResultText(string(resultBytes)), nil
}
