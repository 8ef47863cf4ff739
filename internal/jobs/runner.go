package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs jobs on cron schedules and never lets two runs of the
// same job overlap.
type TaskExecutor struct {
	cron            *cron.Cron
	jobs            []Job
	cronJobs        []CronJob
	runningJobs     mapset.Set[Job]
	runningCronJobs mapset.Set[CronJob]
	muJobs          sync.Mutex
	muCronJobs      sync.Mutex
}

func NewTaskExecutor(jobs []Job, cronJobs []CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:            cron.New(),
		jobs:            jobs,
		cronJobs:        cronJobs,
		runningCronJobs: mapset.NewSet[CronJob](),
		runningJobs:     mapset.NewSet[Job](),
	}
}

// Run schedules the jobs and starts the cron. Plain jobs are polled every
// second.
func (t *TaskExecutor) Run() error {
	for _, job := range t.cronJobs {
		job := job
		err := t.cron.AddFunc(job.Schedule(), func() {
			runExclusive(&t.muCronJobs, t.runningCronJobs, job)
		})
		if err != nil {
			logrus.Errorf("failed to add task to cron: %v", err)
			return err
		}
	}

	for _, job := range t.jobs {
		job := job
		err := t.cron.AddFunc("@every 1s", func() {
			runExclusive(&t.muJobs, t.runningJobs, job)
		})
		if err != nil {
			return err
		}
	}

	t.cron.Start()
	return nil
}

type exclusive interface {
	comparable
	Job
}

func runExclusive[T exclusive](mu *sync.Mutex, running mapset.Set[T], job T) {
	mu.Lock()
	if running.Contains(job) {
		mu.Unlock()
		logrus.Warnf("%T is still running, skipping", job)
		return
	}
	running.Add(job)
	mu.Unlock()

	defer func() {
		mu.Lock()
		defer mu.Unlock()
		running.Remove(job)
	}()

	job.Run()
}

func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.cron.Stop()
}
