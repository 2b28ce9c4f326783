package scoring

import "github.com/jengzang/places-backend-go/internal/models"

// scoreHome rewards evening-through-morning presence (18:00-08:00)
func scoreHome(p models.TemporalProfile) float64 {
	return p.HourFraction(18, 8)
}

// scoreWork rewards weekday office hours (09:00-17:00)
func scoreWork(p models.TemporalProfile) float64 {
	return p.HourFraction(9, 17) * p.WeekdayFraction()
}

// scoreGym rewards early-morning or after-work slots with workout-length dwells
func scoreGym(p models.TemporalProfile) float64 {
	timeFrac := p.HourFraction(6, 9) + p.HourFraction(17, 21)
	if timeFrac > 1 {
		timeFrac = 1
	}
	return timeFrac * dwellAffinity(p.MeanDwellMinutes, 20, 120)
}

// scoreRestaurant rewards meal hours with meal-length dwells
func scoreRestaurant(p models.TemporalProfile) float64 {
	mealFrac := p.HourFraction(11, 14) + p.HourFraction(18, 21)
	if mealFrac > 1 {
		mealFrac = 1
	}
	return mealFrac * dwellAffinity(p.MeanDwellMinutes, 20, 120)
}

// scoreShopping rewards daytime presence with browse-length dwells
func scoreShopping(p models.TemporalProfile) float64 {
	return p.HourFraction(10, 20) * dwellAffinity(p.MeanDwellMinutes, 15, 120) * 0.8
}

// scoreTransit rewards frequent short stops outside deep-night hours
func scoreTransit(p models.TemporalProfile) float64 {
	shortDwell := 0.0
	if p.MeanDwellMinutes < 15 {
		shortDwell = 1.0 - p.MeanDwellMinutes/15.0
	}

	frequency := float64(p.VisitCount) / 10.0
	if frequency > 1 {
		frequency = 1
	}

	return shortDwell * frequency * (1.0 - p.HourFraction(22, 5))
}

// scoreEducation rewards class-hour concentration (morning plus afternoon
// blocks) with a weekday bias
func scoreEducation(p models.TemporalProfile) float64 {
	classFrac := p.HourFraction(8, 12) + p.HourFraction(13, 17)
	if classFrac > 1 {
		classFrac = 1
	}
	return classFrac * p.WeekdayFraction()
}

// dwellAffinity returns 1.0 when the mean dwell lies inside [minMinutes,
// maxMinutes] and tapers linearly toward 0 outside it
func dwellAffinity(dwellMinutes, minMinutes, maxMinutes float64) float64 {
	switch {
	case dwellMinutes <= 0:
		return 0
	case dwellMinutes < minMinutes:
		return dwellMinutes / minMinutes
	case dwellMinutes > maxMinutes:
		return maxMinutes / dwellMinutes
	default:
		return 1
	}
}
