package service

import (
	"alcyxob/fitness-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultExercises returns the starter catalog seeded into an empty library.
func DefaultExercises(userID primitive.ObjectID) []domain.LibraryExercise {
	mk := func(name string, primary []domain.MuscleGroup, secondary []domain.MuscleGroup, equipment []domain.Equipment, difficulty domain.Difficulty, instructions []string, tips []string) domain.LibraryExercise {
		return domain.LibraryExercise{
			UserID:            userID,
			Name:              name,
			PrimaryMuscles:    primary,
			SecondaryMuscles:  secondary,
			EquipmentRequired: equipment,
			Difficulty:        difficulty,
			Instructions:      instructions,
			Tips:              tips,
			IsDefault:         true,
		}
	}

	return []domain.LibraryExercise{
		mk("Push-Up",
			[]domain.MuscleGroup{domain.MuscleChest},
			[]domain.MuscleGroup{domain.MuscleTriceps, domain.MuscleShoulders, domain.MuscleCore},
			[]domain.Equipment{domain.EquipBodyweight},
			domain.DifficultyBeginner,
			[]string{
				"Start in a high plank with hands under shoulders.",
				"Lower your chest toward the floor, elbows at roughly 45 degrees.",
				"Push back up to the starting position.",
			},
			[]string{"Keep your body in a straight line from head to heels."}),
		mk("Bodyweight Squat",
			[]domain.MuscleGroup{domain.MuscleLegs},
			[]domain.MuscleGroup{domain.MuscleGlutes, domain.MuscleCore},
			[]domain.Equipment{domain.EquipBodyweight},
			domain.DifficultyBeginner,
			[]string{
				"Stand with feet shoulder-width apart.",
				"Sit back and down until thighs are parallel to the floor.",
				"Drive through your heels to stand back up.",
			},
			[]string{"Keep your chest up and knees tracking over your toes."}),
		mk("Plank",
			[]domain.MuscleGroup{domain.MuscleCore},
			nil,
			[]domain.Equipment{domain.EquipBodyweight},
			domain.DifficultyBeginner,
			[]string{
				"Rest on forearms and toes with your body in a straight line.",
				"Brace your core and hold.",
			},
			[]string{"Don't let your hips sag or pike."}),
		mk("Pull-Up",
			[]domain.MuscleGroup{domain.MuscleBack},
			[]domain.MuscleGroup{domain.MuscleBiceps},
			[]domain.Equipment{domain.EquipPullUpBar},
			domain.DifficultyIntermediate,
			[]string{
				"Hang from the bar with an overhand grip slightly wider than shoulders.",
				"Pull your chin above the bar.",
				"Lower under control to a full hang.",
			},
			[]string{"Avoid swinging; initiate the pull from your lats."}),
		mk("Dumbbell Bench Press",
			[]domain.MuscleGroup{domain.MuscleChest},
			[]domain.MuscleGroup{domain.MuscleTriceps, domain.MuscleShoulders},
			[]domain.Equipment{domain.EquipDumbbells, domain.EquipBench},
			domain.DifficultyIntermediate,
			[]string{
				"Lie on a bench holding a dumbbell in each hand at chest level.",
				"Press the dumbbells up until arms are extended.",
				"Lower slowly back to chest level.",
			},
			nil),
		mk("Dumbbell Row",
			[]domain.MuscleGroup{domain.MuscleBack},
			[]domain.MuscleGroup{domain.MuscleBiceps},
			[]domain.Equipment{domain.EquipDumbbells, domain.EquipBench},
			domain.DifficultyBeginner,
			[]string{
				"Place one knee and hand on a bench, dumbbell in the other hand.",
				"Row the dumbbell to your hip, keeping your back flat.",
				"Lower under control.",
			},
			[]string{"Pull with your elbow, not your hand."}),
		mk("Goblet Squat",
			[]domain.MuscleGroup{domain.MuscleLegs},
			[]domain.MuscleGroup{domain.MuscleGlutes, domain.MuscleCore},
			[]domain.Equipment{domain.EquipDumbbells},
			domain.DifficultyBeginner,
			[]string{
				"Hold a dumbbell vertically at your chest.",
				"Squat down keeping your torso upright.",
				"Stand back up through your heels.",
			},
			nil),
		mk("Barbell Deadlift",
			[]domain.MuscleGroup{domain.MuscleBack},
			[]domain.MuscleGroup{domain.MuscleLegs, domain.MuscleGlutes, domain.MuscleCore},
			[]domain.Equipment{domain.EquipBarbell},
			domain.DifficultyAdvanced,
			[]string{
				"Stand with the bar over mid-foot, grip just outside your knees.",
				"Brace, then stand up by driving through the floor.",
				"Keep the bar close to your body; lower under control.",
			},
			[]string{"Neutral spine throughout. Start light and groove the pattern."}),
		mk("Overhead Press",
			[]domain.MuscleGroup{domain.MuscleShoulders},
			[]domain.MuscleGroup{domain.MuscleTriceps, domain.MuscleCore},
			[]domain.Equipment{domain.EquipBarbell},
			domain.DifficultyIntermediate,
			[]string{
				"Hold the bar at shoulder height, hands just outside shoulders.",
				"Press overhead until arms are locked out.",
				"Lower back to shoulders under control.",
			},
			[]string{"Squeeze your glutes to avoid arching your lower back."}),
		mk("Kettlebell Swing",
			[]domain.MuscleGroup{domain.MuscleGlutes},
			[]domain.MuscleGroup{domain.MuscleLegs, domain.MuscleBack, domain.MuscleCore},
			[]domain.Equipment{domain.EquipKettlebell},
			domain.DifficultyIntermediate,
			[]string{
				"Hinge at the hips and swing the kettlebell back between your legs.",
				"Snap your hips forward to swing the bell to chest height.",
				"Let it swing back and repeat rhythmically.",
			},
			[]string{"It's a hip hinge, not a squat."}),
		mk("Bicep Curl",
			[]domain.MuscleGroup{domain.MuscleBiceps},
			nil,
			[]domain.Equipment{domain.EquipDumbbells},
			domain.DifficultyBeginner,
			[]string{
				"Hold dumbbells at your sides, palms forward.",
				"Curl the weights to shoulder height without swinging.",
				"Lower slowly.",
			},
			nil),
		mk("Triceps Pushdown",
			[]domain.MuscleGroup{domain.MuscleTriceps},
			nil,
			[]domain.Equipment{domain.EquipCables},
			domain.DifficultyBeginner,
			[]string{
				"Grip the cable attachment with elbows pinned to your sides.",
				"Extend your arms fully, then return under control.",
			},
			nil),
		mk("Band Pull-Apart",
			[]domain.MuscleGroup{domain.MuscleShoulders},
			[]domain.MuscleGroup{domain.MuscleBack},
			[]domain.Equipment{domain.EquipResistanceBands},
			domain.DifficultyBeginner,
			[]string{
				"Hold a band at shoulder height with straight arms.",
				"Pull the band apart until it touches your chest.",
				"Return slowly.",
			},
			nil),
		mk("Leg Press",
			[]domain.MuscleGroup{domain.MuscleLegs},
			[]domain.MuscleGroup{domain.MuscleGlutes},
			[]domain.Equipment{domain.EquipMachine},
			domain.DifficultyBeginner,
			[]string{
				"Sit in the machine with feet shoulder-width on the platform.",
				"Lower the platform until knees reach about 90 degrees.",
				"Press back up without locking your knees hard.",
			},
			nil),
		mk("Burpee",
			[]domain.MuscleGroup{domain.MuscleFullBody},
			[]domain.MuscleGroup{domain.MuscleCore},
			[]domain.Equipment{domain.EquipBodyweight},
			domain.DifficultyIntermediate,
			[]string{
				"From standing, drop into a squat and kick your feet back to a plank.",
				"Do a push-up, jump your feet forward, and leap up.",
			},
			[]string{"Pace yourself; quality over speed."}),
	}
}
