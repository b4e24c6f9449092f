package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/registrar/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	homeController *controllers.HomeController,
	collegeController *controllers.CollegeController,
	programController *controllers.ProgramController,
	studentController *controllers.StudentController,
) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/user/")
	})
	router.GET("/health", homeController.Health)

	user := router.Group("/user")
	{
		user.GET("/", homeController.Index)

		colleges := user.Group("/colleges")
		{
			colleges.GET("", collegeController.ListColleges)
			colleges.POST("", collegeController.SaveCollege)
			colleges.POST("/delete/:id", collegeController.DeleteCollege)
		}

		programs := user.Group("/programs")
		{
			programs.GET("", programController.ListPrograms)
			programs.POST("", programController.SaveProgram)
			programs.POST("/delete/:id", programController.DeleteProgram)
		}

		students := user.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.POST("", studentController.SaveStudent)
			students.POST("/delete/:id", studentController.DeleteStudent)
		}
	}
}
