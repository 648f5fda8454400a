package reflections

import (
	"fmt"
	"strings"

	"github.com/julianstephens/focusflow/internal/cli"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
	"github.com/julianstephens/focusflow/internal/models"
)

type ReflectCmd struct {
	Save SaveCmd `cmd:"" help:"Save today's reflection. Only the fields you pass are changed."`
	Show ShowCmd `cmd:"" help:"Show today's reflection." default:"1"`
}

type SaveCmd struct {
	Gratitude    *string `short:"g" help:"What you are grateful for."`
	Achievements *string `short:"a" help:"What you got done."`
	Challenges   *string `short:"c" help:"What got in the way."`
	Tomorrow     *string `short:"t" help:"Goals for tomorrow."`
	Mood         *int    `short:"m" help:"Mood from 1 to 5, or 0 to clear it."`
}

func (c *SaveCmd) Run(ctx *cli.Context) error {
	patch := models.ReflectionPatch{
		Gratitude:     c.Gratitude,
		Achievements:  c.Achievements,
		Challenges:    c.Challenges,
		TomorrowGoals: c.Tomorrow,
		MoodRating:    c.Mood,
	}
	if patch.IsEmpty() {
		return fmt.Errorf("%w: pass at least one field to save", apperrors.ErrValidation)
	}

	s, err := ctx.Syncer()
	if err != nil {
		return err
	}
	if err := s.SaveDailyReflection(ctx.Background(), patch); err != nil {
		return err
	}
	if err := cli.LastFailure(s); err != nil {
		return err
	}

	fmt.Println("✓ Reflection saved")
	return nil
}

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}

	r := s.Snapshot().Reflection
	if r == nil {
		fmt.Println("No reflection for today yet. Save one with 'focusflow reflect save'.")
		return nil
	}

	fmt.Printf("Reflection for %s\n\n", r.Date)
	printField("Gratitude", r.Gratitude)
	printField("Achievements", r.Achievements)
	printField("Challenges", r.Challenges)
	printField("Tomorrow", r.TomorrowGoals)
	if r.MoodRating > 0 {
		fmt.Printf("%-13s %s\n", "Mood:", strings.Repeat("★", r.MoodRating)+strings.Repeat("☆", 5-r.MoodRating))
	}
	return nil
}

func printField(label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Printf("%-13s %s\n", label+":", value)
}
