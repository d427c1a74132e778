package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/onwaystudy/onwaystudy/internal/storage"
	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

// Corpus generation constants.
const (
	minInstitutions      = 2
	maxExtraInstitutions = 2 // 2-3 institutions total
	minCourses           = 1
	maxExtraCourses      = 3 // 1-3 courses per institution
	minDisciplines       = 2
	maxExtraDisciplines  = 4 // 2-5 disciplines per course
	minActivities        = 1
	maxExtraActivities   = 8 // 1-8 activities per discipline
)

func seedCommand() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "seed NICKNAME",
		Short: "Seed demo data",
		Long: "Generates a random corpus of institutions, courses, disciplines, and\n" +
			"activities owned by the given user. Intended for development databases.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			user, err := store.GetUserByNickname(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			faker := gofakeit.New(seed)
			if err := seedCorpus(cmd.Context(), store, faker, user.ID); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "seeded demo data",
				slog.String("nickname", user.Nickname),
				slog.Uint64("seed", seed),
			)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for the generated corpus (0 for random)")
	return cmd
}

func seedCorpus(ctx context.Context, store storage.Store, faker *gofakeit.Faker, ownerID uint64) error {
	numInstitutions := minInstitutions + faker.IntN(maxExtraInstitutions)
	for i := range numInstitutions {
		// the index suffix keeps generated names unique per owner
		name := fmt.Sprintf("%s %d", faker.Company(), i+1)
		inst, err := store.CreateInstitution(ctx, ownerID, name)
		if err != nil {
			return err
		}
		if err := seedCourses(ctx, store, faker, ownerID, inst.ID); err != nil {
			return err
		}
	}
	return nil
}

func seedCourses(ctx context.Context, store storage.Store, faker *gofakeit.Faker, ownerID, institutionID uint64) error {
	numCourses := minCourses + faker.IntN(maxExtraCourses)
	for range numCourses {
		course, err := store.CreateCourse(ctx, ownerID, db.Course{
			Name:          faker.JobTitle(),
			Acronym:       strings.ToUpper(faker.LetterN(3)),
			Semesters:     int64(6 + faker.IntN(5)),
			InstitutionID: institutionID,
		})
		if err != nil {
			return err
		}
		if err := seedDisciplines(ctx, store, faker, ownerID, course.ID); err != nil {
			return err
		}
	}
	return nil
}

func seedDisciplines(ctx context.Context, store storage.Store, faker *gofakeit.Faker, ownerID, courseID uint64) error {
	numDisciplines := minDisciplines + faker.IntN(maxExtraDisciplines)
	for range numDisciplines {
		disc := db.Discipline{
			Name:     faker.JobDescriptor() + " " + faker.Noun(),
			CourseID: courseID,
		}
		if faker.Bool() {
			disc.ExtraInformation.String = faker.Sentence(8)
			disc.ExtraInformation.Valid = true
		}
		created, err := store.CreateDiscipline(ctx, ownerID, disc)
		if err != nil {
			return err
		}
		if err := seedActivities(ctx, store, faker, ownerID, created.ID); err != nil {
			return err
		}
	}
	return nil
}

func seedActivities(ctx context.Context, store storage.Store, faker *gofakeit.Faker, ownerID, disciplineID uint64) error {
	statuses := []string{db.StatusPending, db.StatusInProgress, db.StatusCompleted}
	numActivities := minActivities + faker.IntN(maxExtraActivities)
	for range numActivities {
		act := db.Activity{
			Name:         faker.Verb() + " " + faker.Noun(),
			Status:       statuses[faker.IntN(len(statuses))],
			DisciplineID: disciplineID,
		}
		if faker.Bool() {
			act.Weight.Float64 = faker.Float64Range(1, 10)
			act.Weight.Valid = true
		}
		if act.Status == db.StatusCompleted {
			act.Result.Float64 = faker.Float64Range(0, 10)
			act.Result.Valid = true
		}
		if _, err := store.CreateActivity(ctx, ownerID, act); err != nil {
			return err
		}
	}
	return nil
}
