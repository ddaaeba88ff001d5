//go:build integration

package integration

import (
	"image"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/r2d2m/graphy/pkg/graphy"
	"github.com/r2d2m/graphy/pkg/graphy/actions"
	"github.com/r2d2m/graphy/test/fixtures"
)

var _ = Describe("Watch Engine", func() {
	var (
		host   *fixtures.ScriptedHost
		engine *graphy.Engine
	)

	BeforeEach(func() {
		host = fixtures.NewScriptedHost()
		engine = graphy.NewEngine(host.Sources(), host.Services(), zap.NewNop())
	})

	drive := func(frames int, dt time.Duration) {
		for i := 0; i < frames; i++ {
			engine.Tick(dt)
		}
	}

	Describe("a one-shot frame rate watch", func() {
		BeforeEach(func() {
			p := graphy.NewWatchPacket(1, graphy.LogicAll,
				graphy.Condition{Variable: graphy.VarFPS, Comparator: graphy.Less, Threshold: 30})
			p.ExecuteOnce = true
			p.InitDelay = 2 * time.Second
			p.Actions = graphy.ActionSpec{
				Severity: graphy.SeverityWarning,
				Message:  "frame rate dropped",
			}
			engine.AddPacket(p)
		})

		Context("when the frame rate drops after the initial delay", func() {
			It("fires exactly once and removes itself", func() {
				drive(12, 250*time.Millisecond) // 3s of healthy frames
				Expect(host.Messages).To(BeEmpty())

				host.SetFPS(20)
				drive(4, 250*time.Millisecond) // 1s of slow frames

				Expect(host.Messages).To(HaveLen(1))
				Expect(host.Messages[0].Severity).To(Equal(graphy.SeverityWarning))
				Expect(host.Messages[0].Message).To(ContainSubstring("frame rate dropped"))
				Expect(engine.Len()).To(BeZero())
			})
		})

		Context("when the frame rate stays healthy", func() {
			It("never fires", func() {
				drive(100, 250*time.Millisecond)

				Expect(host.Messages).To(BeEmpty())
				Expect(engine.Len()).To(Equal(1))
			})
		})
	})

	Describe("ANY condition logic", func() {
		It("fires when a single condition holds", func() {
			p := graphy.NewWatchPacket(2, graphy.LogicAny,
				graphy.Condition{Variable: graphy.VarFPS, Comparator: graphy.Greater, Threshold: 100},
				graphy.Condition{Variable: graphy.VarRAMAllocated, Comparator: graphy.Greater, Threshold: 1e9})
			p.Actions = graphy.ActionSpec{
				Severity: graphy.SeverityError,
				Message:  "resource pressure",
			}
			engine.AddPacket(p)

			host.SetFPS(30)
			host.RAMAlloc = 2e9
			engine.Tick(16 * time.Millisecond)

			Expect(host.Messages).To(HaveLen(1))
			Expect(host.Messages[0].Severity).To(Equal(graphy.SeverityError))
		})
	})

	Describe("packets sharing an id", func() {
		It("removes them all and further lookups miss", func() {
			for i := 0; i < 3; i++ {
				engine.AddPacket(graphy.NewWatchPacket(7, graphy.LogicAll))
			}

			Expect(engine.RemovePacketsWithID(7)).To(Equal(3))
			Expect(engine.Len()).To(BeZero())

			_, err := engine.FirstPacket(7)
			Expect(err).To(MatchError(graphy.ErrPacketNotFound))
		})
	})

	Describe("screenshot actions", func() {
		var shotDir string

		BeforeEach(func() {
			var err error
			shotDir, err = os.MkdirTemp("", "graphy-integration-*")
			Expect(err).NotTo(HaveOccurred())

			writer := actions.NewScreenshotWriter(shotDir, testFrame)
			engine = graphy.NewEngine(host.Sources(),
				graphy.Services{Log: host, Screenshot: writer}, zap.NewNop())
		})

		AfterEach(func() {
			os.RemoveAll(shotDir)
		})

		It("writes a PNG with a sanitized file name", func() {
			p := graphy.NewWatchPacket(3, graphy.LogicAll,
				graphy.Condition{Variable: graphy.VarAudioPeak, Comparator: graphy.GreaterEqual, Threshold: 0.99})
			p.Actions = graphy.ActionSpec{
				Severity:       graphy.SeverityWarning,
				Message:        "audio clipping",
				TakeScreenshot: true,
				ScreenshotName: "Graphy Screenshot",
			}
			engine.AddPacket(p)

			host.AudioPeak = 1.0
			engine.Tick(16 * time.Millisecond)

			entries, err := os.ReadDir(shotDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))

			name := entries[0].Name()
			Expect(name).To(HavePrefix("Graphy_Screenshot_"))
			Expect(name).To(HaveSuffix(".png"))
			Expect(name).NotTo(ContainSubstring(" "))
			Expect(name).NotTo(ContainSubstring(":"))
			Expect(name).NotTo(ContainSubstring("/"))
		})
	})

	Describe("execution break", func() {
		Context("when the breaker is disabled", func() {
			It("continues the pipeline after the refused break", func() {
				breaker := actions.NewBreaker(false)
				engine = graphy.NewEngine(host.Sources(),
					graphy.Services{Log: host, Break: breaker}, zap.NewNop())

				p := graphy.NewWatchPacket(4, graphy.LogicAll,
					graphy.Condition{Variable: graphy.VarFPS, Comparator: graphy.Less, Threshold: 100})
				p.Actions = graphy.ActionSpec{
					Severity:       graphy.SeverityError,
					Message:        "still alerting",
					BreakExecution: true,
				}
				engine.AddPacket(p)

				engine.Tick(16 * time.Millisecond)

				Expect(host.Messages).To(HaveLen(1))
				Expect(host.Messages[0].Message).To(ContainSubstring("still alerting"))
			})
		})
	})

	Describe("alert formatting", func() {
		It("stamps the prefix and a timestamp", func() {
			engine.SetPrefix("myapp")

			p := graphy.NewWatchPacket(5, graphy.LogicAll)
			p.Actions = graphy.ActionSpec{Severity: graphy.SeverityLog, Message: "heartbeat"}
			engine.AddPacket(p)

			engine.Tick(time.Millisecond)

			Expect(host.Messages).To(HaveLen(1))
			msg := host.Messages[0].Message
			Expect(msg).To(HavePrefix("[myapp] ("))
			Expect(msg).To(HaveSuffix("): heartbeat"))
		})
	})
})

// testFrame renders a small white frame for screenshot capture.
func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}
