package web

import (
	"loan-broker/internal/common/config"

	changepassword "loan-broker/internal/operations/account/change-password"
	editaccount "loan-broker/internal/operations/account/edit-account"
	"loan-broker/internal/operations/account/join"
	"loan-broker/internal/operations/account/login"
	"loan-broker/internal/operations/account/logout"
	changeadminpassword "loan-broker/internal/operations/admin/change-admin-password"
	createadmin "loan-broker/internal/operations/admin/create-admin"
	deleteadmin "loan-broker/internal/operations/admin/delete-admin"
	editadmin "loan-broker/internal/operations/admin/edit-admin"
	listadmins "loan-broker/internal/operations/admin/list-admins"
	deleteapplication "loan-broker/internal/operations/application/delete-application"
	editapplication "loan-broker/internal/operations/application/edit-application"
	forwardapplication "loan-broker/internal/operations/application/forward-application"
	listapplications "loan-broker/internal/operations/application/list-applications"
	recorddecision "loan-broker/internal/operations/application/record-decision"
	searchapplications "loan-broker/internal/operations/application/search-applications"
	submitapplication "loan-broker/internal/operations/application/submit-application"
	viewapplication "loan-broker/internal/operations/application/view-application"
	createemploymenttype "loan-broker/internal/operations/employment/create-employment-type"
	deleteemploymenttype "loan-broker/internal/operations/employment/delete-employment-type"
	listemploymenttypes "loan-broker/internal/operations/employment/list-employment-types"
	renameemploymenttype "loan-broker/internal/operations/employment/rename-employment-type"
	changelenderpassword "loan-broker/internal/operations/lender/change-lender-password"
	createlender "loan-broker/internal/operations/lender/create-lender"
	deactivatelender "loan-broker/internal/operations/lender/deactivate-lender"
	editlender "loan-broker/internal/operations/lender/edit-lender"
	listlenders "loan-broker/internal/operations/lender/list-lenders"
	searchlenders "loan-broker/internal/operations/lender/search-lenders"
	setemploymentpreferences "loan-broker/internal/operations/lender/set-employment-preferences"
	viewlender "loan-broker/internal/operations/lender/view-lender"
	uploadimage "loan-broker/internal/operations/media/upload-image"
)

type operations struct {
	join           *join.Handler
	login          *login.Handler
	logout         *logout.Handler
	editAccount    *editaccount.Handler
	changePassword *changepassword.Handler

	submitApplication  *submitapplication.Handler
	editApplication    *editapplication.Handler
	viewApplication    *viewapplication.Handler
	listApplications   *listapplications.Handler
	deleteApplication  *deleteapplication.Handler
	forwardApplication *forwardapplication.Handler
	recordDecision     *recorddecision.Handler
	searchApplications *searchapplications.Handler

	searchLenders        *searchlenders.Handler
	listLenders          *listlenders.Handler
	createLender         *createlender.Handler
	viewLender           *viewlender.Handler
	editLender           *editlender.Handler
	deactivateLender     *deactivatelender.Handler
	setPreferences       *setemploymentpreferences.Handler
	changeLenderPassword *changelenderpassword.Handler

	listAdmins          *listadmins.Handler
	createAdmin         *createadmin.Handler
	editAdmin           *editadmin.Handler
	changeAdminPassword *changeadminpassword.Handler
	deleteAdmin         *deleteadmin.Handler

	listEmploymentTypes  *listemploymenttypes.Handler
	createEmploymentType *createemploymenttype.Handler
	renameEmploymentType *renameemploymenttype.Handler
	deleteEmploymentType *deleteemploymenttype.Handler

	uploadImage *uploadimage.Handler
}

func newOperations(d Deps) *operations {
	db, log := d.DB, d.Logger

	searchCfg := searchapplications.LoadConfig()
	if d.Config.Search.Timeout > 0 {
		searchCfg.Timeout = config.GetDuration(d.Config.Search.Timeout)
	}
	uploadCfg := uploadimage.LoadConfig()
	if d.Config.HTTP.MaxUploadBytes > 0 {
		uploadCfg.MaxBytes = d.Config.HTTP.MaxUploadBytes
	}
	if d.Config.Cloudinary.Timeout > 0 {
		uploadCfg.Timeout = config.GetDuration(d.Config.Cloudinary.Timeout)
	}

	return &operations{
		join:           join.NewHandler(join.LoadConfig(), db, d.Hasher, d.Sessions, log),
		login:          login.NewHandler(login.LoadConfig(), db, d.Hasher, d.LoginLimiter, d.Sessions, log),
		logout:         logout.NewHandler(logout.LoadConfig(), d.Sessions, log),
		editAccount:    editaccount.NewHandler(editaccount.LoadConfig(), db, log),
		changePassword: changepassword.NewHandler(changepassword.LoadConfig(), db, d.Hasher, log),

		submitApplication:  submitapplication.NewHandler(submitapplication.LoadConfig(), db, d.Hasher, d.Sessions, d.Index, log),
		editApplication:    editapplication.NewHandler(editapplication.LoadConfig(), db, d.Index, log),
		viewApplication:    viewapplication.NewHandler(viewapplication.LoadConfig(), db, log),
		listApplications:   listapplications.NewHandler(listapplications.LoadConfig(), db, log),
		deleteApplication:  deleteapplication.NewHandler(deleteapplication.LoadConfig(), db, d.Index, log),
		forwardApplication: forwardapplication.NewHandler(forwardapplication.LoadConfig(), db, log),
		recordDecision:     recorddecision.NewHandler(recorddecision.LoadConfig(), db, d.Notifier, log),
		searchApplications: searchapplications.NewHandler(searchCfg, d.Index, log),

		searchLenders:        searchlenders.NewHandler(searchlenders.LoadConfig(), db, log),
		listLenders:          listlenders.NewHandler(listlenders.LoadConfig(), db, log),
		createLender:         createlender.NewHandler(createlender.LoadConfig(), db, d.Hasher, log),
		viewLender:           viewlender.NewHandler(viewlender.LoadConfig(), db, log),
		editLender:           editlender.NewHandler(editlender.LoadConfig(), db, log),
		deactivateLender:     deactivatelender.NewHandler(deactivatelender.LoadConfig(), db, log),
		setPreferences:       setemploymentpreferences.NewHandler(setemploymentpreferences.LoadConfig(), db, log),
		changeLenderPassword: changelenderpassword.NewHandler(changelenderpassword.LoadConfig(), db, d.Hasher, log),

		listAdmins:          listadmins.NewHandler(listadmins.LoadConfig(), db, log),
		createAdmin:         createadmin.NewHandler(createadmin.LoadConfig(), db, d.Hasher, log),
		editAdmin:           editadmin.NewHandler(editadmin.LoadConfig(), db, log),
		changeAdminPassword: changeadminpassword.NewHandler(changeadminpassword.LoadConfig(), db, d.Hasher, log),
		deleteAdmin:         deleteadmin.NewHandler(deleteadmin.LoadConfig(), db, log),

		listEmploymentTypes:  listemploymenttypes.NewHandler(listemploymenttypes.LoadConfig(), db, log),
		createEmploymentType: createemploymenttype.NewHandler(createemploymenttype.LoadConfig(), db, log),
		renameEmploymentType: renameemploymenttype.NewHandler(renameemploymenttype.LoadConfig(), db, log),
		deleteEmploymentType: deleteemploymenttype.NewHandler(deleteemploymenttype.LoadConfig(), db, log),

		uploadImage: uploadimage.NewHandler(uploadCfg, d.Uploader, log),
	}
}
