package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/state"
)

func newPlanCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Create and inspect study plans",
	}
	cmd.AddCommand(newPlanCreateCmd(c), newPlanListCmd(c), newPlanShowCmd(c), newPlanCompleteCmd(c))
	return cmd
}

func newPlanCreateCmd(c *cli) *cobra.Command {
	var (
		subject string
		days    int
		level   string
		start   string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Generate a study plan for a new course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := domain.ParseLevel(level)
			if err != nil {
				return err
			}
			in := service.CreateCourseInput{Name: args[0], Subject: subject, Days: days, Level: lvl}
			if start != "" {
				in.StartDate, err = time.Parse(domain.DateLayout, start)
				if err != nil {
					return fmt.Errorf("invalid start date %q, use YYYY-MM-DD", start)
				}
			}

			study, err := c.studyService()
			if err != nil {
				return err
			}
			c.print.Info("Generating a %d day plan for %s...", days, subject)
			view, err := study.CreateCourse(cmd.Context(), state.New(), in)
			if err != nil {
				return err
			}

			if err := c.printPlan(view); err != nil {
				return err
			}
			c.print.Success("Course %q saved", view.Course.CourseName)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "what to study")
	cmd.Flags().IntVar(&days, "days", 30, "number of study days")
	cmd.Flags().StringVar(&level, "level", string(domain.LevelBeginner), "beginner, intermediate or advanced")
	cmd.Flags().StringVar(&start, "start", "", "first day as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newPlanListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved courses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			study, err := c.studyService()
			if err != nil {
				return err
			}
			names, err := study.ListCourses(cmd.Context(), state.New())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				c.print.Info("No courses yet. Create one with: scryctl plan create NAME --subject ...")
				return nil
			}
			for _, name := range names {
				c.print.Text(name)
			}
			return nil
		},
	}
}

func newPlanShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a course plan with completed days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			study, err := c.studyService()
			if err != nil {
				return err
			}
			view, err := study.OpenCourse(cmd.Context(), state.New(), args[0])
			if err != nil {
				return err
			}
			return c.printPlan(view)
		},
	}
}

func newPlanCompleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "complete NAME DAY",
		Short: "Mark a day as completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}
			study, err := c.studyService()
			if err != nil {
				return err
			}
			view, err := study.CompleteDay(cmd.Context(), state.New(), args[0], day)
			if err != nil {
				return err
			}
			c.print.Success("Day %d of %s completed (%d of %d done)",
				day, args[0], len(view.CompletedDays), len(view.Course.StudyPlan))
			return nil
		},
	}
}

func (c *cli) printPlan(view *service.CourseView) error {
	course := view.Course
	done := domain.NewProgress(view.CompletedDays...)

	c.print.Header(fmt.Sprintf("%s: %s (%s)", course.CourseName, course.Subject, course.Level))
	rows := make([][]string, 0, len(course.StudyPlan))
	for i, topic := range course.StudyPlan {
		day := i + 1
		date := ""
		if d, err := course.DateFor(day); err == nil {
			date = d.Format(domain.DateLayout)
		}
		mark := ""
		if done.IsComplete(day) {
			mark = "done"
		}
		rows = append(rows, []string{strconv.Itoa(day), date, topic, mark})
	}
	return c.print.Table([]string{"Day", "Date", "Topic", "Status"}, rows)
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 {
		return 0, fmt.Errorf("day must be a positive number, got %q", s)
	}
	return day, nil
}
