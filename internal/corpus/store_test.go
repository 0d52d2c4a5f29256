package corpus

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Irina-Igmm/pdf-ocr/internal/scoring"
)

var _ = Describe("BoltStore", func() {
	var (
		tmpDir string
		dbPath string
		store  *BoltStore
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		store, err = NewBoltStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("SaveRun", func() {
		var (
			run *Run
			err error
		)

		BeforeEach(func() {
			run = &Run{
				ID:        "test-id",
				CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				Hints:     []string{"de"},
				Summary:   scoring.Summary{Samples: 1, TotalAmount: 1.0},
				Results: []Result{
					{PDFPath: "receipts/rewe.pdf"},
				},
			}
		})

		JustBeforeEach(func() {
			err = store.SaveRun(run)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the run to the database", func() {
				saved, getErr := store.GetRun("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
			})
		})
	})

	Describe("GetRun", func() {
		var (
			runID string
			run   *Run
			err   error
		)

		JustBeforeEach(func() {
			run, err = store.GetRun(runID)
		})

		When("the run exists", func() {
			BeforeEach(func() {
				runID = "test-id"
				testRun := &Run{
					ID:        "test-id",
					CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
					Hints:     []string{"de", "fr"},
					Summary:   scoring.Summary{Samples: 2, Currency: 0.5},
				}
				Expect(store.SaveRun(testRun)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct run ID", func() {
				Expect(run.ID).To(Equal("test-id"))
			})

			It("should return the correct hints", func() {
				Expect(run.Hints).To(Equal([]string{"de", "fr"}))
			})

			It("should return the correct summary", func() {
				Expect(run.Summary.Samples).To(Equal(2))
				Expect(run.Summary.Currency).To(Equal(0.5))
			})
		})

		When("the run does not exist", func() {
			var expectedErr error

			BeforeEach(func() {
				runID = "nonexistent"
				expectedErr = errors.New("run not found: nonexistent")
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(expectedErr))
			})
		})
	})

	Describe("ListRuns", func() {
		var (
			runs []*Run
			err  error
		)

		JustBeforeEach(func() {
			runs, err = store.ListRuns()
		})

		When("runs exist", func() {
			BeforeEach(func() {
				run1 := &Run{ID: "id1", CreatedAt: time.Now()}
				run2 := &Run{ID: "id2", CreatedAt: time.Now()}
				Expect(store.SaveRun(run1)).NotTo(HaveOccurred())
				Expect(store.SaveRun(run2)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all runs", func() {
				Expect(runs).To(HaveLen(2))
			})
		})

		When("no runs exist", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an empty list", func() {
				Expect(runs).To(BeEmpty())
			})
		})
	})

	Describe("DeleteRun", func() {
		var (
			runID string
			err   error
		)

		JustBeforeEach(func() {
			err = store.DeleteRun(runID)
		})

		When("the run exists", func() {
			BeforeEach(func() {
				runID = "test-id"
				run := &Run{ID: "test-id", CreatedAt: time.Now()}
				Expect(store.SaveRun(run)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the run from the database", func() {
				_, getErr := store.GetRun("test-id")
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("the run does not exist", func() {
			BeforeEach(func() {
				runID = "nonexistent"
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			err := store.Close()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})

var _ = Describe("NewRun", func() {
	It("assigns a fresh ID and timestamp", func() {
		run := NewRun([]string{"de"}, scoring.Summary{Samples: 1}, nil)
		Expect(run.ID).NotTo(BeEmpty())
		Expect(run.CreatedAt).NotTo(BeZero())
		Expect(run.Hints).To(Equal([]string{"de"}))

		other := NewRun(nil, scoring.Summary{}, nil)
		Expect(other.ID).NotTo(Equal(run.ID))
	})
})
