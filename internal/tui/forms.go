package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusflow/internal/constants"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/validation"
)

type SessionFormModel struct {
	Title         string
	Duration      string
	Category      models.Category
	ScheduledTime string
}

func (f *SessionFormModel) Patch() (models.FocusSessionPatch, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(f.Duration))
	if err != nil {
		return models.FocusSessionPatch{}, fmt.Errorf("duration must be a number of minutes")
	}
	patch := models.FocusSessionPatch{
		Title:       &f.Title,
		DurationMin: &minutes,
		Category:    &f.Category,
	}
	if t := strings.TrimSpace(f.ScheduledTime); t != "" {
		patch.ScheduledTime = &t
	}
	return patch, nil
}

type EnergyFormModel struct {
	Value string
	Notes string
}

func (f *EnergyFormModel) Parse() (int, string, error) {
	value, err := strconv.Atoi(strings.TrimSpace(f.Value))
	if err != nil {
		return 0, "", fmt.Errorf("energy must be a number")
	}
	return value, strings.TrimSpace(f.Notes), nil
}

type ReflectionFormModel struct {
	Gratitude     string
	Achievements  string
	Challenges    string
	TomorrowGoals string
	Mood          int
}

func newReflectionForm(r *models.DailyReflection) *ReflectionFormModel {
	if r == nil {
		return &ReflectionFormModel{}
	}
	return &ReflectionFormModel{
		Gratitude:     r.Gratitude,
		Achievements:  r.Achievements,
		Challenges:    r.Challenges,
		TomorrowGoals: r.TomorrowGoals,
		Mood:          r.MoodRating,
	}
}

// Patch sets every field, since the form shows the stored values.
func (f *ReflectionFormModel) Patch() models.ReflectionPatch {
	return models.ReflectionPatch{
		Gratitude:     &f.Gratitude,
		Achievements:  &f.Achievements,
		Challenges:    &f.Challenges,
		TomorrowGoals: &f.TomorrowGoals,
		MoodRating:    &f.Mood,
	}
}

func (m *Model) newSessionForm() *huh.Form {
	m.sessionForm = &SessionFormModel{
		Duration: strconv.Itoa(constants.DefaultFocusDurationMin),
		Category: models.CategoryWork,
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.sessionForm.Title).
				Validate(func(s string) error {
					_, err := validation.Title(s)
					return err
				}),
			huh.NewInput().
				Title("Duration (minutes)").
				Value(&m.sessionForm.Duration).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("enter a number")
					}
					return validation.Duration(n)
				}),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(huh.NewOptions(models.Categories...)...).
				Value(&m.sessionForm.Category),
			huh.NewInput().
				Title("Scheduled time (HH:MM, optional)").
				Value(&m.sessionForm.ScheduledTime).
				Validate(func(s string) error {
					return validation.ScheduledTime(strings.TrimSpace(s))
				}),
		),
	)
}

func (m *Model) newEnergyForm() *huh.Form {
	m.energyForm = &EnergyFormModel{Value: strconv.Itoa(m.snapshot.Energy.Value)}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Energy (%d-%d)", constants.MinEnergy, constants.MaxEnergy)).
				Value(&m.energyForm.Value).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("enter a number")
					}
					return validation.Energy(n)
				}),
			huh.NewInput().
				Title("Notes (optional)").
				Value(&m.energyForm.Notes),
		),
	)
}

func (m *Model) newReflectionForm() *huh.Form {
	m.reflectionForm = newReflectionForm(m.snapshot.Reflection)

	moods := []huh.Option[int]{huh.NewOption("not set", 0)}
	for i := constants.MinMoodRating; i <= constants.MaxMoodRating; i++ {
		moods = append(moods, huh.NewOption(strings.Repeat("★", i), i))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Grateful for").Value(&m.reflectionForm.Gratitude),
			huh.NewText().Title("Achievements").Value(&m.reflectionForm.Achievements),
		),
		huh.NewGroup(
			huh.NewText().Title("Challenges").Value(&m.reflectionForm.Challenges),
			huh.NewText().Title("Goals for tomorrow").Value(&m.reflectionForm.TomorrowGoals),
			huh.NewSelect[int]().Title("Mood").Options(moods...).Value(&m.reflectionForm.Mood),
		),
	)
}
